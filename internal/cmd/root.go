// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/schemaform/internal/config"
	"github.com/opmodel/schemaform/internal/output"
)

var (
	// Global flags
	configFlag    string
	verboseFlag   bool
	logFormatFlag string
	noColorFlag   bool

	// Loaded configuration (populated during PersistentPreRunE)
	cliConfig *config.Config
)

// NewRootCmd creates the root command for the schemaform CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "schemaform",
		Short:         "GraphQL schema to stack set compiler",
		Long:          `schemaform compiles a directive-annotated schema document into deployment templates and resolver mapping templates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: SCHEMAFORM_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format: text, json (env: SCHEMAFORM_LOG_FORMAT)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: NO_COLOR)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return NewExitError(err, ExitUsageError)
	})

	// Add subcommands
	rootCmd.AddCommand(NewCompileCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	// Load configuration first so we can use config values for logging setup
	loaded, err := config.NewLoader().LoadWithDefaults(configFlag)
	if err != nil {
		output.Debug("config load error", "error", err)
		// Don't fail here - fall back to defaults so every command still works
		loaded = config.DefaultConfig()
	}

	// Store loaded config in package-level var
	cliConfig = loaded

	// Build LogConfig with precedence: flag > config > default
	logCfg := output.LogConfig{
		Verbose: verboseFlag,
		Level:   cliConfig.Log.Level,
		Format:  cliConfig.Log.Format,
		NoColor: noColorFlag || cliConfig.Log.NoColor,
	}
	if cmd.Flags().Changed("log-format") {
		logCfg.Format = logFormatFlag
	}

	output.SetupLogging(logCfg)

	if verboseFlag {
		output.Debug("initializing CLI",
			"config", configFlag,
			"logFormat", logCfg.Format,
			"noColor", logCfg.NoColor,
		)
	}

	return nil
}

// GetConfig returns the loaded CLI configuration.
func GetConfig() *config.Config {
	if cliConfig == nil {
		return config.DefaultConfig()
	}
	return cliConfig
}

// exactArgs validates the positional argument count, reporting
// violations with the usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return NewExitError(err, ExitUsageError)
		}
		return nil
	}
}
