package cmd

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/schemaform/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare two compiled stack sets",
		Long: `Compare two compiled stack sets and report the differences.

Both arguments may be directories of split output or single stack set
files. Templates are paired by relative path and compared semantically
via dyff; resolver templates are compared byte for byte.

Exit codes:
  0   the stack sets match
  10  differences were found

Examples:
  # Compare two split output directories
  schemaform diff ./build-old ./build-new

  # Compare two single-file stack sets
  schemaform diff old.yaml new.yaml`,
		Args: exactArgs(2),
		RunE: runDiff,
	}
}

// runDiff executes the diff command.
func runDiff(cmd *cobra.Command, args []string) error {
	fromPath, toPath := args[0], args[1]

	fromInfo, err := os.Stat(fromPath)
	if err != nil {
		return NewExitError(fmt.Errorf("reading %s: %w", fromPath, err), ExitGeneralError)
	}
	toInfo, err := os.Stat(toPath)
	if err != nil {
		return NewExitError(fmt.Errorf("reading %s: %w", toPath, err), ExitGeneralError)
	}

	if fromInfo.IsDir() != toInfo.IsDir() {
		return NewExitError(
			fmt.Errorf("cannot compare directory with file: %s, %s", fromPath, toPath),
			ExitUsageError)
	}

	useColor := !output.IsNoColor() && output.IsTTY()

	if !fromInfo.IsDir() {
		return diffFiles(fromPath, toPath, useColor)
	}
	return diffDirs(fromPath, toPath, useColor)
}

// diffFiles compares two single-file stack sets.
func diffFiles(fromPath, toPath string, useColor bool) error {
	fromData, err := os.ReadFile(fromPath)
	if err != nil {
		return NewExitError(fmt.Errorf("reading %s: %w", fromPath, err), ExitGeneralError)
	}
	toData, err := os.ReadFile(toPath)
	if err != nil {
		return NewExitError(fmt.Errorf("reading %s: %w", toPath, err), ExitGeneralError)
	}

	report, err := output.CompareDocuments(fromPath, fromData, toPath, toData, useColor)
	if err != nil {
		return NewExitError(err, ExitGeneralError)
	}

	if report == "" {
		output.Println("No changes detected.")
		return nil
	}

	output.Println(report)
	return &ExitError{
		Code:    ExitDiffDifferences,
		Err:     fmt.Errorf("differences between %s and %s", fromPath, toPath),
		Printed: true,
	}
}

// diffDirs pairs split output files by relative path and compares each
// pair.
func diffDirs(fromDir, toDir string, useColor bool) error {
	fromFiles, err := collectTemplateFiles(fromDir)
	if err != nil {
		return NewExitError(fmt.Errorf("walking %s: %w", fromDir, err), ExitGeneralError)
	}
	toFiles, err := collectTemplateFiles(toDir)
	if err != nil {
		return NewExitError(fmt.Errorf("walking %s: %w", toDir, err), ExitGeneralError)
	}

	names := make([]string, 0, len(fromFiles)+len(toFiles))
	for name := range fromFiles {
		names = append(names, name)
	}
	for name := range toFiles {
		if _, ok := fromFiles[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var added, removed []string
	var modified []output.ModifiedItem

	for _, name := range names {
		_, inFrom := fromFiles[name]
		_, inTo := toFiles[name]

		switch {
		case !inFrom:
			added = append(added, name)
			continue
		case !inTo:
			removed = append(removed, name)
			continue
		}

		fromData, err := os.ReadFile(filepath.Join(fromDir, name))
		if err != nil {
			return NewExitError(fmt.Errorf("reading %s: %w", name, err), ExitGeneralError)
		}
		toData, err := os.ReadFile(filepath.Join(toDir, name))
		if err != nil {
			return NewExitError(fmt.Errorf("reading %s: %w", name, err), ExitGeneralError)
		}

		if isTemplatePath(name) {
			report, err := output.CompareDocuments(
				filepath.Join(fromDir, name), fromData,
				filepath.Join(toDir, name), toData, useColor)
			if err != nil {
				return NewExitError(fmt.Errorf("comparing %s: %w", name, err), ExitGeneralError)
			}
			if report != "" {
				modified = append(modified, output.ModifiedItem{Name: name, Diff: report})
			}
			continue
		}

		// Resolver templates are VTL text, not YAML
		if !bytes.Equal(fromData, toData) {
			modified = append(modified, output.ModifiedItem{Name: name})
		}
	}

	if len(added) == 0 && len(removed) == 0 && len(modified) == 0 {
		output.Println("No changes detected.")
		return nil
	}

	output.Print(output.RenderDiff(added, removed, modified, output.GetStyles()))
	return &ExitError{
		Code: ExitDiffDifferences,
		Err: fmt.Errorf("%d differences between %s and %s",
			len(added)+len(removed)+len(modified), fromDir, toDir),
		Printed: true,
	}
}

// collectTemplateFiles lists the comparable files under root, keyed by
// path relative to root.
func collectTemplateFiles(root string) (map[string]struct{}, error) {
	files := map[string]struct{}{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json", ".vtl":
		default:
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[rel] = struct{}{}
		return nil
	})

	return files, err
}

// isTemplatePath reports whether the file holds a serialized template
// rather than VTL text.
func isTemplatePath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
