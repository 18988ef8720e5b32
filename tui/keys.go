package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"

	"go-drumpad/machine"
)

// keyMap holds the non-pad controls. Pad keys always win over these, so a
// kit may rebind any of them except ctrl+c.
type keyMap struct {
	Pads    key.Binding
	Power   key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Quit    key.Binding
	volStep float64
}

// newKeyMap builds the bindings. The pad help names the release gap: a
// second tap of the same key inside it reads as auto-repeat and is dropped.
func newKeyMap(m *machine.Machine, releaseGap time.Duration) keyMap {
	var pads []string
	for i := 0; i < machine.NumPads; i++ {
		pads = append(pads, m.Key(i))
	}
	return keyMap{
		Pads:    key.NewBinding(key.WithKeys(pads...), key.WithHelp(strings.Join(pads, ""), fmt.Sprintf("pads (re-tap after %dms)", releaseGap.Milliseconds()))),
		Power:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "power")),
		VolUp:   key.NewBinding(key.WithKeys("+", "=", "up", "right"), key.WithHelp("+/→", "vol up")),
		VolDown: key.NewBinding(key.WithKeys("-", "_", "down", "left"), key.WithHelp("-/←", "vol down")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		volStep: 0.05,
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pads, k.Power, k.VolUp, k.VolDown, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pads}, {k.Power, k.VolUp, k.VolDown}, {k.Quit}}
}
