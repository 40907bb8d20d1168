package output

// YAML-aware template comparison built on dyff. The diff command pairs
// compiled templates by name and renders one report per changed pair.

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// CompareDocuments compares two serialized templates and returns a
// rendered diff, or the empty string when they match. Both YAML and
// JSON inputs work; JSON is a YAML subset.
func CompareDocuments(fromLocation string, from []byte, toLocation string, to []byte, useColor bool) (string, error) {
	if len(bytes.TrimSpace(from)) == 0 && len(bytes.TrimSpace(to)) == 0 {
		return "", nil
	}

	fromInput, err := parseInput(fromLocation, from)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", fromLocation, err)
	}

	toInput, err := parseInput(toLocation, to)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", toLocation, err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", fmt.Errorf("comparing templates: %w", err)
	}

	if len(report.Diffs) == 0 {
		return "", nil
	}

	return renderReport(report, useColor)
}

// parseInput parses serialized bytes into a dyff input file.
func parseInput(location string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: location}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}

	return ytbx.InputFile{
		Location:  location,
		Documents: docs,
	}, nil
}

// renderReport renders a dyff report to a string, trimming trailing
// whitespace dyff leaves on table rows.
func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer

	reportWriter := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}

	if err := reportWriter.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
