package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/services/theme"
)

func init() {
	Init(theme.Defaults().Brand)
}

func TestBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value int
		max   int
		want  int
	}{
		{"full", 10, 10, 20},
		{"half", 5, 10, 10},
		{"tiny values still show", 1, 1000, 1},
		{"zero", 0, 10, 0},
		{"no max", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Bar(tt.value, tt.max, 20)
			assert.Equal(t, tt.want, strings.Count(got, "█"))
		})
	}
}

func TestTable_PadsColumns(t *testing.T) {
	t.Parallel()
	out := Table([]string{"Name", "Phone"}, [][]string{{"Ana Souza", "1"}, {"Bo", "119999"}})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(l))
	}
	assert.Contains(t, out, "Ana Souza")
}

func TestRenderTagChip(t *testing.T) {
	t.Parallel()
	assert.Contains(t, RenderTagChip(&models.Tag{Name: "VIP", Color: "#ff0000"}), "[VIP]")
}

func TestRenderColumn(t *testing.T) {
	t.Parallel()
	out := RenderColumn("New Leads", []string{"Ana", "Bruno"})
	assert.Contains(t, out, "New Leads")
	assert.Contains(t, out, "2 leads")
	assert.Contains(t, out, "Bruno")
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	out := Markdown("## Session\n\n**human**: is the bike still available?", 60)
	assert.Contains(t, out, "Session")
	assert.Contains(t, out, "still available")
}
