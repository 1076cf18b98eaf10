/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/goproj/internal/ops"
	"github.com/fulmenhq/goproj/internal/verify"
	"github.com/fulmenhq/goproj/pkg/config"
	"github.com/fulmenhq/goproj/pkg/exitcode"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [manifest...]",
	Short: "Check referential integrity of one or more manifests",
	Long: `Verify parses each manifest and reports dangling references, duplicate
identifiers, duplicate display names, and build entries no phase owns.
Multiple manifests are checked concurrently.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("format", "pretty", "Output format (pretty|json|yaml)")

	if err := ops.RegisterCommand("verify", ops.GroupAudit, false, verifyCmd, "Check manifest referential integrity"); err != nil {
		logger.Error("Failed to register verify command", logger.Err(err))
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		paths = []string{cfg.Manifest.Path}
	}

	report, err := verify.Files(context.Background(), paths)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	rendered, err := verify.Format(report, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)

	if report.Healthy {
		return nil
	}
	os.Exit(verifyExitCode(report))
	return nil
}

// verifyExitCode classifies an unhealthy report: parse failures beat
// read failures beat integrity violations.
func verifyExitCode(report *verify.Report) int {
	code := exitcode.ValidationError
	for _, res := range report.Results {
		if res.Err == nil {
			continue
		}
		if errors.Is(res.Err, manifest.ErrMalformed) {
			return exitcode.MalformedManifest
		}
		code = exitcode.FileSystemError
	}
	return code
}
