package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(22)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

const rule = "═══════════════════════════════════════"

func displayTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, rule)
}

func displaySection(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(title))
	fmt.Fprintln(w, "─────────────────────")
}

func displayKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%s %v\n", keyStyle.Render(key+":"), value)
}

// DisplayError shows an error message
func DisplayError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("❌ Error: "+err.Error()))
}

// DisplayWarning shows a warning message
func DisplayWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render("⚠️  "+message))
}

// DisplaySuccess shows a success message
func DisplaySuccess(w io.Writer, message string) {
	fmt.Fprintln(w, completedStyle.Render("✅ "+message))
}

func configuredMark(ok bool) string {
	if ok {
		return "✅ Configured"
	}
	return "❌ Not configured"
}
