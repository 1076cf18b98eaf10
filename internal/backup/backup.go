/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package backup holds manifest snapshots for rollback and writes the
// on-disk backup copy taken before a mutating command touches the file.
package backup

import (
	"fmt"
	"os"

	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
	"github.com/fulmenhq/goproj/pkg/safeio"
)

// DefaultSuffix is appended to the manifest path for the on-disk backup.
const DefaultSuffix = ".backup"

// Token identifies one snapshot held by a Keeper.
type Token int

// Keeper retains deep-copy snapshots of manifest state. Snapshots are
// taken before a mutation batch and either discarded on commit or handed
// back on rollback.
type Keeper struct {
	snapshots []*manifest.Manifest
}

// Snapshot stores a deep copy of the manifest and returns its token.
func (k *Keeper) Snapshot(m *manifest.Manifest) Token {
	k.snapshots = append(k.snapshots, m.Clone())
	return Token(len(k.snapshots) - 1)
}

// Restore returns a fresh copy of the state captured under token. The
// stored snapshot itself is never handed out, so a token can be restored
// more than once.
func (k *Keeper) Restore(token Token) (*manifest.Manifest, error) {
	if int(token) < 0 || int(token) >= len(k.snapshots) {
		return nil, fmt.Errorf("unknown snapshot token %d", token)
	}
	return k.snapshots[token].Clone(), nil
}

// Discard drops every snapshot taken at or after token, releasing the
// memory once a batch commits.
func (k *Keeper) Discard(token Token) {
	if int(token) >= 0 && int(token) < len(k.snapshots) {
		k.snapshots = k.snapshots[:int(token)]
	}
}

// WriteFile copies the manifest's current on-disk bytes to path+suffix.
// Called once per mutating command, before the first write, matching the
// tooling convention of leaving a `.backup` beside the manifest.
func WriteFile(path, suffix string) error {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-supplied by design
	if err != nil {
		return fmt.Errorf("reading manifest for backup: %w", err)
	}
	backupPath := path + suffix
	if err := safeio.WriteFilePreservePerms(backupPath, data); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	logger.Debug("backup written", logger.String("path", backupPath))
	return nil
}
