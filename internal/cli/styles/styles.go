// Package styles holds the lipgloss styles of the human-readable output
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/motoloc/motocrm/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Board styles
	ColumnStyle lipgloss.Style
	ColumnWidth = 28

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Phone:", "Visit:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Tags", "Columns"

	// BarStyle fills the bars of the dashboard charts
	BarStyle lipgloss.Style
)

// Init initializes all CLI styles with the given brand colors
func Init(brand models.BrandColors) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(brand.Gold)).
		Padding(1, 2).
		Width(CardWidth)

	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(brand.Navy)).
		Padding(0, 1).
		Width(ColumnWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(brand.Gold))

	SubtitleStyle = lipgloss.NewStyle().
		Faint(true)

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(brand.Gold))

	ValueStyle = lipgloss.NewStyle()

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(brand.Pink)).
		Bold(true).
		MarginTop(1)

	BarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(brand.Gold))
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderTagChip renders a tag as "[name]" with the tag's color
func RenderTagChip(tag *models.Tag) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(tag.Color)).
		Bold(true).
		Render("[" + tag.Name + "]")
}

// RenderField renders a "Label: value" line
func RenderField(label, value string) string {
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}

// RenderColumn renders one board column with its lead lines
func RenderColumn(title string, lines []string) string {
	body := TitleStyle.Render(title) + "\n" + SubtitleStyle.Render(fmt.Sprintf("%d leads", len(lines)))
	if len(lines) > 0 {
		body += "\n\n" + strings.Join(lines, "\n")
	}
	return ColumnStyle.Render(body)
}

// RenderBoard lays columns side by side
func RenderBoard(columns []string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// Bar renders a horizontal bar of value units scaled to width against max
func Bar(value, max, width int) string {
	if max <= 0 || value <= 0 {
		return ""
	}
	n := value * width / max
	if n == 0 {
		n = 1
	}
	return BarStyle.Render(strings.Repeat("█", n))
}

// Table renders rows under bold headers, padding every column to its widest
// cell
func Table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	pad := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = style.Width(w).Render(cell)
		}
		return strings.Join(parts, "  ")
	}

	var sb strings.Builder
	sb.WriteString(pad(headers, lipgloss.NewStyle().Bold(true)))
	for _, row := range rows {
		sb.WriteString("\n")
		sb.WriteString(pad(row, lipgloss.NewStyle()))
	}
	return sb.String()
}
