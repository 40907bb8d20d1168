// Package cmd provides CLI command implementations.
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show schemaform version information.

Displays the CLI version, commit, build date, and Go version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(outputFlag)
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "text",
		"Output format: text, json")

	return cmd
}

func runVersion(format string) error {
	info := version.GetInfo()

	switch format {
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		output.Println(string(data))
	case "", "text":
		output.Println(fmt.Sprintf("schemaform version %s", info.Version))
		output.Println(fmt.Sprintf("  Commit:  %s", info.GitCommit))
		output.Println(fmt.Sprintf("  Built:   %s", info.BuildDate))
		output.Println(fmt.Sprintf("  Go:      %s", info.GoVersion))
	default:
		return NewExitError(
			fmt.Errorf("invalid output format %q (valid: text, json)", format),
			ExitUsageError)
	}

	return nil
}
