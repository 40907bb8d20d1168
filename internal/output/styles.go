package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette, named constants for all ANSI 256 colors used in the
// CLI. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// colorCyan is used for identifiable nouns: type names, resource
	// IDs, stack names.
	colorCyan = lipgloss.Color("14")

	// colorGreen is used for the "written" file status.
	colorGreen = lipgloss.Color("82")

	// colorYellow is used for the "changed" status in diffs.
	colorYellow = lipgloss.Color("220")

	// colorRed is used for the "removed" status in diffs.
	colorRed = lipgloss.Color("196")

	// colorBoldRed is used for the "failed" status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")
)

// Styles groups the semantic styles used across commands, so no-color
// output can swap the whole set at once.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Noun    lipgloss.Style
}

// GetStyles returns the style set for the current terminal, honoring
// NO_COLOR.
func GetStyles() *Styles {
	if IsNoColor() {
		return NoColorStyles()
	}
	return &Styles{
		Success: lipgloss.NewStyle().Foreground(colorGreen),
		Error:   lipgloss.NewStyle().Foreground(colorRed),
		Warning: lipgloss.NewStyle().Foreground(colorYellow),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Noun:    lipgloss.NewStyle().Foreground(colorCyan),
	}
}

// NoColorStyles returns a style set with all styling disabled.
func NoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Success: plain,
		Error:   plain,
		Warning: plain,
		Bold:    plain,
		Muted:   plain,
		Noun:    plain,
	}
}

// noColorOverride forces color off when set, regardless of NO_COLOR.
var noColorOverride bool

// SetNoColor forces color output off or restores env-based detection.
func SetNoColor(v bool) {
	noColorOverride = v
}

// IsNoColor reports whether color output is disabled, either via the
// NO_COLOR environment variable or the --no-color flag.
func IsNoColor() bool {
	if noColorOverride {
		return true
	}
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// File and resource status constants.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusChanged   = "changed"
	StatusFailed    = "failed"
)

// statusStyle returns the style for a status string. Unknown statuses
// return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusWritten:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusChanged:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case StatusUnchanged:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minResourceColumnWidth is the minimum width for the resource path
// column before the status suffix, so status words align consistently.
const minResourceColumnWidth = 48

// FormatResourceLine renders a resource identifier with a right-aligned,
// color-coded status suffix.
//
// Format: r:<Kind/stack/id>  <status>
// For root-level resources (empty stack name): r:<Kind/id>
func FormatResourceLine(kind, stackName, id, status string) string {
	var path string
	if stackName != "" {
		path = fmt.Sprintf("%s/%s/%s", kind, stackName, id)
	} else {
		path = fmt.Sprintf("%s/%s", kind, id)
	}

	padding := minResourceColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	styles := GetStyles()
	prefix := styles.Muted.Render("r:")
	styledPath := styles.Noun.Render(path)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout
// output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatDirectiveLine renders one directive application for plan
// output.
//
// Format: ▸ <type> ← @<directive>
func FormatDirectiveLine(typeName, directive string) string {
	styles := GetStyles()
	return "▸ " + styles.Noun.Render(typeName) + " ← " + styles.Bold.Render("@"+directive)
}
