/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package planner

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fulmenhq/goproj/pkg/logger"
)

// fileTypes maps extensions to manifest file type tokens. Unknown
// extensions fall back to the generic "file" type.
var fileTypes = map[string]string{
	".swift":      "sourcecode.swift",
	".m":          "sourcecode.c.objc",
	".mm":         "sourcecode.cpp.objcpp",
	".h":          "sourcecode.c.h",
	".c":          "sourcecode.c.c",
	".cpp":        "sourcecode.cpp.cpp",
	".metal":      "sourcecode.metal",
	".storyboard": "file.storyboard",
	".xib":        "file.xib",
	".plist":      "text.plist.xml",
	".json":       "text.json",
	".md":         "net.daringfireball.markdown",
}

// InferFileType returns the manifest file type token for a path.
func InferFileType(p string) string {
	if t, ok := fileTypes[strings.ToLower(path.Ext(p))]; ok {
		return t
	}
	return "file"
}

// ScanDir walks root and builds an addition spec for every regular file
// matching any of the doublestar patterns. Paths in the specs are
// slash-separated and relative to root; display names are base names.
// Results are sorted by path so batches are deterministic.
func ScanDir(root string, patterns []string, phase, group string) ([]AddFileSpec, error) {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid match pattern %q", pattern)
		}
	}

	var specs []AddFileSpec
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, rel)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			specs = append(specs, AddFileSpec{
				DisplayName: path.Base(rel),
				Path:        rel,
				FileType:    InferFileType(rel),
				Phase:       phase,
				Group:       group,
			})
			break
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("scan root %q: %w", root, err)
		}
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	logger.Debug("directory scan complete",
		logger.String("root", root),
		logger.Int("matches", len(specs)))
	return specs, nil
}
