/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/goproj/internal/ops"
	"github.com/fulmenhq/goproj/internal/planner"
	"github.com/fulmenhq/goproj/pkg/config"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [manifest]",
	Short: "Show section and membership statistics for a manifest",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

func init() {
	if err := ops.RegisterCommand("info", ops.GroupAudit, false, infoCmd, "Show manifest statistics"); err != nil {
		logger.Error("Failed to register info command", logger.Err(err))
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		path = cfg.Manifest.Path
	}

	session, err := planner.Open(path)
	if err != nil {
		return err
	}
	m := session.Manifest()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", path)
	for _, kind := range manifest.Kinds {
		if !m.HasSection(kind) {
			continue
		}
		fmt.Fprintf(out, "  %-16s %d record(s)\n", kind, len(m.Records(kind)))
	}
	for _, phase := range m.Records(manifest.KindBuildPhase) {
		fmt.Fprintf(out, "  phase %-16q %d member(s)\n", phase.Name, len(phase.Entries))
	}
	for _, group := range m.Records(manifest.KindGroupNode) {
		fmt.Fprintf(out, "  group %-16q %d child(ren)\n", group.Name, len(group.Children))
	}
	return nil
}
