package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/phanxgames/marionette"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary values
	colorRed   = lipgloss.Color("167") // Soft red - selection
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - borders
	colorWhite = lipgloss.Color("255") // Bright white - values
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleSelected = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Output
// =============================================================================

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+styleValue.Render(value))
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X(), v.Y(), v.Z())
}

func formatDegrees(d float64) string {
	if d == 0 {
		return "0"
	}
	return fmt.Sprintf("%+.1f°", d)
}

// poseTable renders joint rows. The row named selected is highlighted.
func poseTable(rows []marionette.PoseReport, selected string) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		parent := r.Parent
		if parent == "" {
			parent = "—"
		}
		digit := r.Digit.String()
		if r.Digit == marionette.DigitNone {
			digit = "—"
		}
		data[i] = []string{
			r.Name,
			r.Class.String(),
			digit,
			parent,
			formatVec(r.Pivot),
			formatDegrees(r.Flex),
			formatDegrees(r.Spread),
			fmt.Sprint(r.Steps),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Joint", "Class", "Digit", "Parent", "Pivot", "Flex", "Spread", "Steps").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row >= 0 && row < len(rows) && rows[row].Name == selected {
				return styleSelected
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// countsLine renders event counts as "pick 1 · key 3 · rotate 6 · redraw 7".
func countsLine(counts map[marionette.EventType]int) string {
	var parts []string
	for _, e := range []marionette.EventType{
		marionette.EventPick,
		marionette.EventPickMiss,
		marionette.EventKey,
		marionette.EventRotate,
		marionette.EventRedraw,
	} {
		if n := counts[e]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", e, n))
		}
	}
	if len(parts) == 0 {
		return styleDim.Render("no events")
	}
	return styleDim.Render(strings.Join(parts, " · "))
}
