package safeio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFilePreservePerms(t *testing.T) {
	// Create a temporary file for testing
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.txt")
	testData := []byte("test data for safeio")

	// Test writing to non-existent file (should use default 0644)
	err := WriteFilePreservePerms(testFile, testData)
	if err != nil {
		t.Fatalf("WriteFilePreservePerms() failed for new file: %v", err)
	}

	// Verify file was created with correct content
	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	if string(content) != string(testData) {
		t.Errorf("File content mismatch: got %q, expected %q", string(content), string(testData))
	}

	// Check file permissions (should be readable/writable by owner, readable by others)
	stat, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat test file: %v", err)
	}
	mode := stat.Mode()
	expectedMode := os.FileMode(0o644)
	if mode.Perm() != expectedMode {
		t.Errorf("File permissions: got %s, expected %s", mode.Perm(), expectedMode)
	}
}

func TestWriteFilePreservePermsExisting(t *testing.T) {
	// Create a temporary file with specific permissions
	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "test.txt")

	// Create file with specific permissions
	initialData := []byte("initial data")
	err := os.WriteFile(testFile, initialData, 0o755)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Verify initial permissions
	stat, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat test file: %v", err)
	}
	initialMode := stat.Mode()

	// Write new data using WriteFilePreservePerms
	newData := []byte("new manifest bytes")
	err = WriteFilePreservePerms(testFile, newData)
	if err != nil {
		t.Fatalf("WriteFilePreservePerms() failed for existing file: %v", err)
	}

	// Verify content was updated
	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	if string(content) != string(newData) {
		t.Errorf("File content mismatch: got %q, expected %q", string(content), string(newData))
	}

	// Verify permissions were preserved
	stat, err = os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat test file after write: %v", err)
	}
	finalMode := stat.Mode()
	if finalMode != initialMode {
		t.Errorf("File permissions changed: was %s, now %s", initialMode, finalMode)
	}
}

func TestWriteFilePreservePermsError(t *testing.T) {
	// Test writing to a directory that doesn't exist
	nonExistentDir := "/non/existent/directory/file.txt"
	testData := []byte("test data")

	err := WriteFilePreservePerms(nonExistentDir, testData)
	if err == nil {
		t.Error("WriteFilePreservePerms() should fail for non-existent directory")
	}
}
