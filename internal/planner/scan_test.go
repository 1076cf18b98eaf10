/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/goproj/pkg/manifest"
)

func TestInferFileType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Sources/App.swift", "sourcecode.swift"},
		{"Legacy/Bridge.m", "sourcecode.c.objc"},
		{"Legacy/Bridge.h", "sourcecode.c.h"},
		{"UI/Main.storyboard", "file.storyboard"},
		{"Info.plist", "text.plist.xml"},
		{"README.md", "net.daringfireball.markdown"},
		{"assets/icon.png", "file"},
		{"Makefile", "file"},
		{"Shader.METAL", "sourcecode.metal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, InferFileType(tt.path), tt.path)
	}
}

func TestScanDir(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"App.swift",
		"Model/User.swift",
		"Model/User.json",
		"docs/notes.md",
	}
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}

	specs, err := ScanDir(root, []string{"**/*.swift"}, "Compile", "Sources")
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "App.swift", specs[0].DisplayName)
	assert.Equal(t, "App.swift", specs[0].Path)
	assert.Equal(t, "Model/User.swift", specs[1].Path)
	assert.Equal(t, "User.swift", specs[1].DisplayName)
	assert.Equal(t, "sourcecode.swift", specs[1].FileType)
	assert.Equal(t, "Compile", specs[1].Phase)
	assert.Equal(t, "Sources", specs[1].Group)
}

func TestScanDirMultiplePatterns(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"A.swift", "B.md", "C.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, f), []byte("x"), 0o644))
	}

	specs, err := ScanDir(root, []string{"*.swift", "*.md"}, "Compile", "Sources")
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "A.swift", specs[0].Path)
	assert.Equal(t, "B.md", specs[1].Path)
}

func TestScanDirInvalidPattern(t *testing.T) {
	_, err := ScanDir(t.TempDir(), []string{"[bad"}, "Compile", "Sources")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match pattern")
}

func TestScanDirMissingRoot(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "absent"), []string{"**/*"}, "Compile", "Sources")
	require.Error(t, err)
}

func TestSessionSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.manifest")
	require.NoError(t, os.WriteFile(path, []byte(baseManifest), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.AddFile(AddFileSpec{
		DisplayName: "View.swift",
		Path:        "Sources/View.swift",
		FileType:    "sourcecode.swift",
		Phase:       "Compile",
		Group:       "Sources",
	})
	require.NoError(t, err)
	require.NoError(t, s.Save(true, ".backup"))

	// Backup holds the pre-mutation bytes, the manifest the new state.
	backupData, err := os.ReadFile(path + ".backup")
	require.NoError(t, err)
	assert.Equal(t, baseManifest, string(backupData))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Len(t, reopened.Manifest().Records(manifest.KindFileDeclaration), 2)
	assert.Empty(t, reopened.Validate())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.manifest"))
	require.Error(t, err)
}
