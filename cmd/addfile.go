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

var addFileCmd = &cobra.Command{
	Use:   "add-file [name path type]",
	Short: "Add a file declaration with build entry, phase, and group membership",
	Long: `Add-file declares a file in the manifest and wires it into a build
phase and a group in one atomic step. Adding a name that is already
declared is a reported no-op, so the command can be re-run safely.

Batch form: --from and --match walk a directory and add every matching
file, inferring the file type from the extension.`,
	Args: cobra.RangeArgs(0, 3),
	RunE: runAddFile,
}

func init() {
	addFileCmd.Flags().String("phase", "", "Target build phase (default from config)")
	addFileCmd.Flags().String("group", "", "Target group (default from config)")
	addFileCmd.Flags().String("from", "", "Directory to scan for batch addition")
	addFileCmd.Flags().StringSlice("match", []string{"**/*"}, "Glob pattern(s) for batch addition, doublestar syntax")

	// Register with ops registry
	if err := ops.RegisterCommand("add-file", ops.GroupEdit, true, addFileCmd, "Add a file with full build wiring"); err != nil {
		logger.Error("Failed to register add-file command", logger.Err(err))
	}
}

func runAddFile(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	if from == "" && len(args) != 3 {
		return fmt.Errorf("expected <name> <path> <type> arguments, or --from for batch mode")
	}

	session, cfg, err := openSession(cmd)
	if err != nil {
		return err
	}

	phase, _ := cmd.Flags().GetString("phase")
	if phase == "" {
		phase = cfg.Defaults.Phase
	}
	group, _ := cmd.Flags().GetString("group")
	if group == "" {
		group = cfg.Defaults.Group
	}

	out := cmd.OutOrStdout()
	if from != "" {
		patterns, _ := cmd.Flags().GetStringSlice("match")
		specs, err := planner.ScanDir(from, patterns, phase, group)
		if err != nil {
			return err
		}
		if len(specs) == 0 {
			fmt.Fprintln(out, "no files matched")
			return nil
		}
		results, err := session.AddFiles(specs)
		if err != nil {
			return err
		}
		added := 0
		for i, res := range results {
			if res.Changed() {
				added++
				continue
			}
			fmt.Fprintf(out, "%s: %s\n", specs[i].DisplayName, res.Status)
		}
		fmt.Fprintf(out, "added %d of %d matched file(s)\n", added, len(specs))
		return saveSession(cmd, cfg, session)
	}

	res, err := session.AddFile(planner.AddFileSpec{
		DisplayName: args[0],
		Path:        args[1],
		FileType:    args[2],
		Phase:       phase,
		Group:       group,
	})
	if err != nil {
		return err
	}
	switch res.Status {
	case planner.StatusAlreadyPresent:
		fmt.Fprintf(out, "%s: already present, manifest unchanged\n", args[0])
	default:
		fmt.Fprintf(out, "added %s (declaration %s, build entry %s)\n", args[0], res.FileID, res.EntryID)
	}
	return saveSession(cmd, cfg, session)
}
