package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal output.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/secondary text color
	Danger  lipgloss.Color // Error highlight color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Danger:  lipgloss.Color("#ff5f5f"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Dim    lipgloss.Style
	Danger lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
		Danger: lipgloss.NewStyle().Bold(true).Foreground(t.Danger),
	}
}

// DefaultStyles returns styles for the default theme.
func DefaultStyles() Styles {
	return NewStyles(DefaultTheme)
}

// Table renders rows as a left-aligned column table with a styled header.
// Column widths follow the widest cell in each column.
type Table struct {
	Styles Styles
	Header []string
	Rows   [][]string
}

// Render renders the table to a string, one line per row.
func (t Table) Render() string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range t.Header {
		b.WriteString(t.Styles.Label.Render(pad(h, widths[i])))
		if i < len(t.Header)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			b.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// Checkmark returns a styled availability marker.
func (s Styles) Checkmark(ok bool) string {
	if ok {
		return s.Title.Render("✓")
	}
	return s.Danger.Render("✗")
}

// KV renders a "label: value" line with a styled label.
func (s Styles) KV(label string, value any) string {
	return fmt.Sprintf("%s %v", s.Label.Render(label+":"), value)
}
