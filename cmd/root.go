/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/fulmenhq/goproj/internal/index"
	"github.com/fulmenhq/goproj/internal/ops"
	"github.com/fulmenhq/goproj/internal/planner"
	"github.com/fulmenhq/goproj/pkg/buildinfo"
	"github.com/fulmenhq/goproj/pkg/exitcode"
	"github.com/fulmenhq/goproj/pkg/logger"
	"github.com/fulmenhq/goproj/pkg/manifest"
	"github.com/spf13/cobra"
)

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goproj",
		Short: "Project manifest editing with referential integrity",
		Long: `Goproj edits a project build manifest (file declarations, build
entries, group hierarchy, and build-phase membership) while keeping the
cross-references between those sections intact. Every mutation is
validated before it is committed; a failed check rolls the manifest back.

Examples:
   goproj add-file A.swift Sources/A.swift sourcecode.swift --phase=Compile --group=Sources
   goproj remove-file A.swift --cascade
   goproj dedupe --phase=Compile
   goproj verify project.manifest`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	// Add global flags
	cmd.PersistentFlags().String("log-level", "info", "Set log level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	cmd.PersistentFlags().Bool("no-op", false, "Compute the mutation plan without writing the manifest")

	// Wire Cobra's built-in --version using goproj's binary version
	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("goproj {{.Version}}\n")

	// Grouped help by command group (Edit → Audit → Support)
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		reg := ops.GetRegistry()
		cmd.Println(cmd.Long)
		cmd.Println()
		cmd.Println("Edit Commands (write the manifest):")
		for _, c := range reg.GetCommandsByGroup(ops.GroupEdit) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Audit Commands (read-only):")
		for _, c := range reg.GetCommandsByGroup(ops.GroupAudit) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Support Commands:")
		for _, c := range reg.GetCommandsByGroup(ops.GroupSupport) {
			cmd.Printf("  %-12s %s\n", c.Name, c.Description)
		}
		cmd.Println()
		cmd.Println("Flags:")
		cmd.Print(cmd.UsageString())
	})

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
// This is called from init() for production and can be called explicitly in tests.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(addFileCmd)
	cmd.AddCommand(removeFileCmd)
	cmd.AddCommand(dedupeCmd)
	cmd.AddCommand(verifyCmd)
	cmd.AddCommand(infoCmd)
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	// Register all subcommands with the production rootCmd
	registerSubcommands(rootCmd)

	// Every command registered as mutating gets the shared manifest and
	// backup flags; read-only commands never carry them.
	for _, reg := range ops.GetRegistry().GetMutatingCommands() {
		addManifestFlags(reg.Command)
	}
}

// exitCodeFor maps the error taxonomy to the stable exit codes the CLI
// contract promises. Every distinct failure class gets its own code.
func exitCodeFor(err error) int {
	var integrity *planner.IntegrityError
	switch {
	case errors.Is(err, manifest.ErrMalformed), errors.Is(err, manifest.ErrUnknownSection):
		return exitcode.MalformedManifest
	case errors.Is(err, planner.ErrTargetNotFound):
		return exitcode.TargetNotFound
	case errors.Is(err, planner.ErrNotFound):
		return exitcode.NotFound
	case errors.Is(err, planner.ErrDependentsExist):
		return exitcode.DependentsExist
	case errors.Is(err, index.ErrDuplicateName):
		return exitcode.DuplicateName
	case errors.As(err, &integrity):
		return exitcode.ValidationError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return exitcode.FileSystemError
	default:
		return exitcode.GeneralError
	}
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	logLevelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")
	noOp, _ := cmd.Flags().GetBool("no-op")

	// Parse log level
	var logLevel logger.Level
	switch strings.ToLower(logLevelStr) {
	case "trace":
		logLevel = logger.TraceLevel
	case "debug":
		logLevel = logger.DebugLevel
	case "info":
		logLevel = logger.InfoLevel
	case "warn":
		logLevel = logger.WarnLevel
	case "error":
		logLevel = logger.ErrorLevel
	default:
		logLevel = logger.InfoLevel
	}

	config := logger.Config{
		Level:    logLevel,
		UseColor: !noColor,
		JSON:     jsonLogs,
		NoOp:     noOp,
	}
	if err := logger.Initialize(config); err != nil {
		os.Stderr.WriteString("failed to initialize logger\n")
	}
}
