package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-drumpad/machine"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	SliderFull  rune // █ volume below the knob
	SliderEmpty rune // ░ volume above the knob
	PowerOn     rune // ● power button lit
	PowerOff    rune // ○ power button dark
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			SliderFull:  '█',
			SliderEmpty: '░',
			PowerOn:     '●',
			PowerOff:    '○',
		},
	}
}

// MustDefault returns the theme built on the built-in palette
func MustDefault() *Theme {
	p, err := Builtin(DefaultPalette)
	if err != nil {
		panic(fmt.Sprintf("failed to load built-in palette: %v", err))
	}
	return New(p)
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0 // ink
	RoleSurface  = 0.1 // idle pad
	RoleMuted    = 0.2 // borders, help
	RoleDim      = 0.3 // idle LED
	RoleFG       = 0.4 // readable text
	RoleAccent   = 0.5 // header
	RolePulseOn  = 0.6 // pad hit while powered
	RoleWarning  = 0.7 // slider
	RoleSuccess  = 0.8 // power on
	RolePulseOff = 0.9 // pad hit while unpowered
	RoleHot      = 1.0 // now playing
)

// Style helpers

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }
func (t *Theme) Hot() lipgloss.Color     { return t.Color(RoleHot) }

// PadRGB is the fill of a pad, shared by the terminal grid and LEDs
func (t *Theme) PadRGB(active bool, style machine.Style) RGB {
	switch {
	case !active:
		return t.Palette.Lookup(RoleSurface)
	case style == machine.StyleOff:
		return t.Palette.Lookup(RolePulseOff)
	default:
		return t.Palette.Lookup(RolePulseOn)
	}
}

// PadColor is PadRGB as a lipgloss color
func (t *Theme) PadColor(active bool, style machine.Style) lipgloss.Color {
	return rgbToLipgloss(t.PadRGB(active, style))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// RGB returns raw RGB for any normalized value (for Launchpad)
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
