/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/goproj/internal/ops"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/spf13/cobra"
)

var removeFileCmd = &cobra.Command{
	Use:   "remove-file <name>",
	Short: "Remove a file declaration and, with --cascade, everything referencing it",
	Long: `Remove-file deletes a file declaration by display name. When build
entries still depend on the file the command refuses unless --cascade is
given, in which case the declaration, its build entries, and every phase
and group reference are removed in one atomic step.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoveFile,
}

func init() {
	removeFileCmd.Flags().Bool("cascade", false, "Also remove dependent build entries and memberships")

	if err := ops.RegisterCommand("remove-file", ops.GroupEdit, true, removeFileCmd, "Remove a file and optionally its dependents"); err != nil {
		logger.Error("Failed to register remove-file command", logger.Err(err))
	}
}

func runRemoveFile(cmd *cobra.Command, args []string) error {
	session, cfg, err := openSession(cmd)
	if err != nil {
		return err
	}

	cascade, _ := cmd.Flags().GetBool("cascade")
	res, err := session.RemoveFile(args[0], cascade)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d record(s): %v)\n", args[0], len(res.Removed), res.Removed)
	return saveSession(cmd, cfg, session)
}
