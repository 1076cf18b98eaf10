/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/goproj/internal/ops"
	"github.com/fulmenhq/goproj/internal/planner"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/spf13/cobra"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate file memberships from a build phase",
	Long: `Dedupe scans a build phase's membership list and keeps only the first
occurrence of each underlying file. Running it again once the phase is
clean is a no-op.`,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().String("phase", "", "Build phase to deduplicate (default from config)")

	if err := ops.RegisterCommand("dedupe", ops.GroupEdit, true, dedupeCmd, "Deduplicate build phase membership"); err != nil {
		logger.Error("Failed to register dedupe command", logger.Err(err))
	}
}

func runDedupe(cmd *cobra.Command, args []string) error {
	session, cfg, err := openSession(cmd)
	if err != nil {
		return err
	}

	phase, _ := cmd.Flags().GetString("phase")
	if phase == "" {
		phase = cfg.Defaults.Phase
	}

	res, err := session.Dedupe(phase)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Status == planner.StatusNoChange {
		fmt.Fprintf(cmd.OutOrStdout(), "phase %q already clean\n", phase)
		return nil
	}
	fmt.Fprintf(out, "phase %q: %s\n", phase, res.Detail)
	return saveSession(cmd, cfg, session)
}
