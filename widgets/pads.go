package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-drumpad/machine"
	"go-drumpad/theme"
)

// Pad cell geometry. A cell is PadWidth x PadHeight inside a one-cell border.
const (
	PadWidth  = 11
	PadHeight = 2
	PadGap    = 1 // columns between cells

	cellWidth  = PadWidth + 2
	cellHeight = PadHeight + 2
	gridCols   = 3
)

// PadView is what the grid needs to draw one pad
type PadView struct {
	Key    string
	Name   string
	Active bool
	Style  machine.Style
}

// GridWidth is the rendered width of the pad grid
func GridWidth() int {
	return gridCols*cellWidth + (gridCols-1)*PadGap
}

// GridHeight is the rendered height of the pad grid
func GridHeight() int {
	return (machine.NumPads / gridCols) * cellHeight
}

// RenderPad renders a single bordered pad
func RenderPad(th *theme.Theme, p PadView) string {
	fill := th.PadColor(p.Active, p.Style)
	border := th.Muted()
	text := th.FG()
	if p.Active {
		border = fill
		text = th.BG()
	}

	style := lipgloss.NewStyle().
		Width(PadWidth).
		Height(PadHeight).
		Align(lipgloss.Center).
		Background(fill).
		Foreground(text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)

	label := lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(p.Key))
	return style.Render(label + "\n" + truncate(p.Name, PadWidth))
}

// RenderPadGrid renders the 3x3 grid, pad 0 top left
func RenderPadGrid(th *theme.Theme, pads [machine.NumPads]PadView) string {
	gap := strings.Repeat(" ", PadGap)
	var rows []string
	for r := 0; r < machine.NumPads/gridCols; r++ {
		var cells []string
		for c := 0; c < gridCols; c++ {
			if c > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, RenderPad(th, pads[r*gridCols+c]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// PadAt maps a point relative to the grid's top left corner to a pad.
// Gaps between cells hit nothing.
func PadAt(x, y int) (int, bool) {
	if x < 0 || y < 0 {
		return -1, false
	}
	stride := cellWidth + PadGap
	col := x / stride
	if x%stride >= cellWidth || col >= gridCols {
		return -1, false
	}
	row := y / cellHeight
	if row >= machine.NumPads/gridCols {
		return -1, false
	}
	return row*gridCols + col, true
}

// RenderDisplay renders the now-playing name
func RenderDisplay(th *theme.Theme, name string, powered bool) string {
	style := lipgloss.NewStyle().
		Width(GridWidth()-2).
		Align(lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		BorderForeground(th.Muted())

	switch {
	case !powered:
		return style.Foreground(th.Muted()).Render("- off -")
	case name == "":
		return style.Foreground(th.Muted()).Render(" ")
	}
	return style.Foreground(th.Hot()).Bold(true).Render(name)
}

// SliderPrefix is printed before the slider bar
const SliderPrefix = "VOL "

// RenderSlider renders "VOL ████░░░░  50%" with a bar of width cells
func RenderSlider(th *theme.Theme, volume float64, width int) string {
	full := int(volume*float64(width) + 0.5)
	if full > width {
		full = width
	}
	bar := strings.Repeat(string(th.Symbols.SliderFull), full) +
		strings.Repeat(string(th.Symbols.SliderEmpty), width-full)

	prefix := lipgloss.NewStyle().Foreground(th.FG()).Render(SliderPrefix)
	body := lipgloss.NewStyle().Foreground(th.Warning()).Render(bar)
	pct := lipgloss.NewStyle().Foreground(th.FG()).Render(fmt.Sprintf(" %3d%%", int(volume*100+0.5)))
	return prefix + body + pct
}

// SliderValue maps a column relative to the bar start to a volume. The
// first cell is silence, the last full volume.
func SliderValue(x, width int) (float64, bool) {
	if x < 0 || x >= width || width < 2 {
		return 0, false
	}
	return float64(x) / float64(width-1), true
}

// PowerLabel is the power button text without the lamp
const PowerLabel = " POWER"

// RenderPower renders the power button
func RenderPower(th *theme.Theme, powered bool) string {
	lamp := th.Symbols.PowerOff
	color := th.Muted()
	if powered {
		lamp = th.Symbols.PowerOn
		color = th.Success()
	}
	return lipgloss.NewStyle().
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(string(lamp) + PowerLabel)
}

// PowerWidth is the rendered width of the power button
func PowerWidth() int {
	return lipgloss.Width(string('●')+PowerLabel) + 2
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}
