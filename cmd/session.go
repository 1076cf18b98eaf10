/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"github.com/fulmenhq/goproj/internal/planner"
	"github.com/fulmenhq/goproj/pkg/config"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/spf13/cobra"
)

// addManifestFlags attaches the flags every mutating command shares.
func addManifestFlags(cmd *cobra.Command) {
	cmd.Flags().String("manifest", "", "Manifest file to edit (default from config)")
	cmd.Flags().Bool("backup", true, "Write a backup copy before the first write")
}

// openSession loads config, resolves the manifest path, and opens an
// editing session on it.
func openSession(cmd *cobra.Command) (*planner.Session, *config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	path, _ := cmd.Flags().GetString("manifest")
	if path == "" {
		path = cfg.Manifest.Path
	}
	session, err := planner.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return session, cfg, nil
}

// saveSession writes the session back unless nothing changed or the run
// is in no-op mode.
func saveSession(cmd *cobra.Command, cfg *config.Config, session *planner.Session) error {
	if !session.Dirty() {
		logger.Info("manifest unchanged, nothing to write")
		return nil
	}
	if noOp, _ := cmd.Flags().GetBool("no-op"); noOp {
		logger.Info("no-op mode: mutation computed but not written")
		return nil
	}
	withBackup, _ := cmd.Flags().GetBool("backup")
	return session.Save(withBackup && cfg.Backup.Enabled, cfg.Backup.Suffix)
}
