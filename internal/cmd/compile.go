package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opmodel/schemaform/internal/output"
	"github.com/opmodel/schemaform/internal/schema"
	"github.com/opmodel/schemaform/internal/transform"
	"github.com/opmodel/schemaform/internal/transform/auth"
	"github.com/opmodel/schemaform/internal/transform/key"
	"github.com/opmodel/schemaform/internal/transform/model"
)

// NewCompileCmd creates the compile command.
func NewCompileCmd() *cobra.Command {
	var (
		outputFlag    string
		outputDirFlag string
		formatFlag    string
		envFlag       string
		quietFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "compile <schema>",
		Short: "Compile a schema document into a stack set",
		Long: `Compile a directive-annotated schema document into a stack set.

This command loads a serialized schema document, applies each type's
directives through the transform pipeline, links the generated resources
into a root template plus nested stacks, and writes the result.

Arguments:
  schema    Path to the schema document (YAML or JSON)

Examples:
  # Compile to stdout
  schemaform compile schema.yaml

  # Compile to a single file
  schemaform compile schema.yaml -o stackset.yaml

  # Compile to one file per template plus resolver templates
  schemaform compile schema.yaml --output-dir ./build

  # Compile as JSON for a named environment
  schemaform compile schema.yaml --format json --env prod`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, outputFlag, outputDirFlag, formatFlag, envFlag, quietFlag)
		},
	}

	// Compile-specific flags
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "-",
		"Output file for the stack set, - for stdout")
	cmd.Flags().StringVar(&outputDirFlag, "output-dir", "",
		"Write one file per template into this directory")
	cmd.Flags().StringVar(&formatFlag, "format", "",
		"Output format: yaml, json (default from config)")
	cmd.Flags().StringVar(&envFlag, "env", "",
		"Environment name stamped into resource names")
	cmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false,
		"Suppress the compile summary")

	return cmd
}

// runCompile executes the compile command.
func runCompile(cmd *cobra.Command, args []string, outputPath, outputDir, formatValue, env string, quiet bool) error {
	ctx := context.Background()
	cfg := GetConfig()
	schemaPath := args[0]

	// Resolve format and environment with flag > config precedence
	if !cmd.Flags().Changed("format") {
		formatValue = cfg.Output.Format
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return NewExitError(err, ExitUsageError)
	}

	if !cmd.Flags().Changed("env") {
		env = cfg.Compile.Environment
	}

	// Load and validate the schema document
	doc, err := schema.LoadDocument(schemaPath)
	if err != nil {
		return err
	}

	pipe, err := transform.NewPipeline(
		model.New(model.Options{
			Environment:    env,
			DeletionPolicy: cfg.Compile.DeletionPolicy,
			BillingMode:    cfg.Compile.BillingMode,
		}),
		key.New(),
		auth.New(),
	)
	if err != nil {
		return err
	}

	output.Debug("compiling schema",
		"schema", schemaPath,
		"types", len(doc.Types),
		"env", env,
	)

	// Run the pipeline under a spinner; piped output skips it
	var result *transform.Result
	err = output.RunWithSpinner(ctx, func() error {
		var runErr error
		result, runErr = pipe.Run(doc)
		return runErr
	}, output.WithTitle(fmt.Sprintf("Compiling %s...", schemaPath)))
	if err != nil {
		return NewExitError(err, ExitCompileError)
	}

	// Resolve the split output directory: flag > config
	outDir := outputDir
	if outDir == "" && cfg.Output.Split {
		outDir = cfg.Output.Directory
		if outDir == "" {
			outDir = "build"
		}
	}

	if outDir != "" {
		files, err := output.WriteSplitStackSet(result.Stacks, output.SplitOptions{
			OutDir:      outDir,
			Format:      format,
			ResolverDir: cfg.Compile.ResolverDir,
		})
		if err != nil {
			return NewExitError(fmt.Errorf("writing stack set: %w", err), ExitOutputError)
		}

		if !quiet {
			output.Print(output.RenderFileTree(outDir, files))
			output.Println(output.FormatCheckmark(
				fmt.Sprintf("wrote %d files to %s", len(files), outDir)))
		}
	} else {
		w := os.Stdout
		if outputPath != "" && outputPath != "-" {
			f, err := os.Create(outputPath)
			if err != nil {
				return NewExitError(fmt.Errorf("creating %s: %w", outputPath, err), ExitOutputError)
			}
			defer f.Close()
			w = f
		}

		if err := output.WriteStackSet(result.Stacks, output.WriteOptions{
			Format: format,
			Writer: w,
		}); err != nil {
			return NewExitError(fmt.Errorf("writing stack set: %w", err), ExitOutputError)
		}

		if !quiet && w != os.Stdout {
			output.Println(output.FormatCheckmark(
				fmt.Sprintf("wrote stack set to %s", outputPath)))
		}
	}

	// Verbose plan goes to stderr so a piped stack set stays parseable
	if verboseFlag && !quiet {
		info := compileInfo(schemaPath, result)
		if err := output.WriteVerboseResult(info, output.VerboseOptions{Writer: os.Stderr}); err != nil {
			return NewExitError(fmt.Errorf("writing verbose output: %w", err), ExitOutputError)
		}
	}

	return nil
}

// compileInfo flattens a pipeline result into the verbose output shape.
func compileInfo(schemaPath string, result *transform.Result) *output.CompileInfo {
	info := &output.CompileInfo{
		SchemaPath: schemaPath,
		Stacks:     output.SummarizeStackSet(result.Stacks),
	}

	for _, t := range result.Document.Types {
		if t.IsObject() {
			info.Types = append(info.Types, t.Name)
		}
	}
	for _, a := range result.Applied {
		info.Applied = append(info.Applied, output.DirectiveInfo{
			TypeName:  a.TypeName,
			Directive: a.Directive,
		})
	}

	return info
}
