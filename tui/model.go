package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-drumpad/debug"
	"go-drumpad/machine"
	"go-drumpad/midi"
	"go-drumpad/theme"
	"go-drumpad/widgets"
)

// sliderWidth is the number of cells in the volume bar
const sliderWidth = 21

// layoutBounds holds cached layout info for mouse hit tests
type layoutBounds struct {
	gridTop   int
	sliderTop int
	powerTop  int
}

// pressTracker infers key-up: terminals only report presses (and their
// auto-repeats), so a key counts as released once it has been quiet for
// the release gap.
type pressTracker struct {
	held map[string]uint64
	next uint64
}

type Model struct {
	Machine    *machine.Machine
	DeviceMgr  *midi.DeviceManager // nil when MIDI is disabled
	Theme      *theme.Theme
	expiries   <-chan machine.Expiry
	releaseGap time.Duration
	keys       keyMap
	help       help.Model
	press      *pressTracker
	bounds     *layoutBounds
	ctrls      map[string]midi.Controller
	lit        string // controller whose LEDs show the pulses
	quitting   bool
}

type expiryMsg machine.Expiry

type releaseMsg struct {
	key   string
	token uint64
}

type padMsg struct {
	id string
	ev midi.PadEvent
}

type noteMsg struct {
	id string
	ev midi.NoteEvent
}

type controllerGoneMsg struct{ id string }

type DeviceEventMsg midi.DeviceEvent

// NewModel creates the shell. expiries delivers pulse clears from the
// machine's scheduler; deviceMgr may be nil.
func NewModel(m *machine.Machine, expiries <-chan machine.Expiry, deviceMgr *midi.DeviceManager, th *theme.Theme, releaseGap time.Duration) Model {
	return Model{
		Machine:    m,
		DeviceMgr:  deviceMgr,
		Theme:      th,
		expiries:   expiries,
		releaseGap: releaseGap,
		keys:       newKeyMap(m, releaseGap),
		help:       help.New(),
		press:      &pressTracker{held: make(map[string]uint64)},
		bounds:     &layoutBounds{},
		ctrls:      make(map[string]midi.Controller),
	}
}

func ListenForExpiries(ch <-chan machine.Expiry) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return expiryMsg(e)
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func ListenForPads(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.PadEvents()
		if !ok {
			return controllerGoneMsg{id: c.ID()}
		}
		return padMsg{id: c.ID(), ev: ev}
	}
}

func ListenForNotes(c midi.Controller) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-c.NoteEvents()
		if !ok {
			return controllerGoneMsg{id: c.ID()}
		}
		return noteMsg{id: c.ID(), ev: ev}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForExpiries(m.expiries)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}

	case releaseMsg:
		if m.press.held[msg.key] == msg.token {
			delete(m.press.held, msg.key)
			m.Machine.OnKeyUp(msg.key)
		}

	case expiryMsg:
		m.Machine.Expire(machine.Expiry(msg))
		return m, ListenForExpiries(m.expiries)

	case padMsg:
		c, ok := m.ctrls[msg.id]
		if !ok {
			return m, nil
		}
		if msg.ev.Pressed {
			m.Machine.OnPadActivated(msg.ev.Pad)
		}
		return m, ListenForPads(c)

	case noteMsg:
		c, ok := m.ctrls[msg.id]
		if !ok {
			return m, nil
		}
		if pad, ok := m.Machine.PadForNote(msg.ev.Note); ok {
			m.Machine.OnPadActivated(pad)
		}
		return m, ListenForNotes(c)

	case controllerGoneMsg:
		m.dropController(msg.id)

	case DeviceEventMsg:
		cmd := m.handleDevice(midi.DeviceEvent(msg))
		return m, tea.Batch(cmd, ListenForDevices(m.DeviceMgr))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if _, ok := m.Machine.PadForKey(k); ok {
		k = strings.ToLower(k)
		m.Machine.OnKeyDown(k)
		return m, m.scheduleRelease(k)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Power):
		m.Machine.OnPowerToggle()
	case key.Matches(msg, m.keys.VolUp):
		m.Machine.OnVolumeSliderChanged(m.Machine.Volume() + m.keys.volStep)
	case key.Matches(msg, m.keys.VolDown):
		m.Machine.OnVolumeSliderChanged(m.Machine.Volume() - m.keys.volStep)
	}
	return m, nil
}

// scheduleRelease (re)arms the inferred key-up for k. Each press or repeat
// retires the previous token.
func (m Model) scheduleRelease(k string) tea.Cmd {
	m.press.next++
	token := m.press.next
	m.press.held[k] = token
	return tea.Tick(m.releaseGap, func(time.Time) tea.Msg {
		return releaseMsg{key: k, token: token}
	})
}

func (m Model) click(x, y int) {
	b := m.bounds
	if pad, ok := widgets.PadAt(x, y-b.gridTop); ok {
		m.Machine.OnPadActivated(pad)
		return
	}
	if y == b.sliderTop {
		if v, ok := widgets.SliderValue(x-len(widgets.SliderPrefix), sliderWidth); ok {
			m.Machine.OnVolumeSliderChanged(v)
		}
		return
	}
	if y >= b.powerTop && y < b.powerTop+3 && x >= 0 && x < widgets.PowerWidth() {
		m.Machine.OnPowerToggle()
	}
}

func (m *Model) handleDevice(ev midi.DeviceEvent) tea.Cmd {
	switch ev.Type {
	case midi.DeviceConnected:
		c := ev.Controller
		m.ctrls[ev.ID] = c
		debug.Log("tui", "controller %s connected", ev.ID)
		if c.Type() == midi.ControllerLaunchpad {
			m.Machine.Mount(midi.LEDTargets(c, m.padRGB))
			m.lit = ev.ID
			return ListenForPads(c)
		}
		return ListenForNotes(c)

	case midi.DeviceDisconnected:
		m.dropController(ev.ID)
	}
	return nil
}

// dropController forgets a controller and darkens the grid mirror if it
// was the lit one
func (m *Model) dropController(id string) {
	delete(m.ctrls, id)
	if m.lit == id {
		m.Machine.Unmount()
		m.lit = ""
	}
}

func (m Model) padRGB(active bool, style machine.Style) [3]uint8 {
	if !active {
		return m.Theme.RGB(theme.RoleDim).Scale(0.5)
	}
	return m.Theme.PadRGB(active, style)
}

func (m Model) padViews() [machine.NumPads]widgets.PadView {
	var pads [machine.NumPads]widgets.PadView
	for i, s := range m.Machine.Samples() {
		pads[i] = widgets.PadView{
			Key:    m.Machine.Key(i),
			Name:   s.Name,
			Active: m.Machine.IsPadActive(i),
			Style:  m.Machine.PadActiveStyle(i),
		}
	}
	return pads
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.Machine.State()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())

	power := "OFF"
	if st.Powered {
		power = "ON "
	}
	devices := ""
	if n := len(m.ctrls); n > 0 {
		devices = fmt.Sprintf("  midi:%d", n)
	}
	header := headerStyle.Render(fmt.Sprintf("go-drumpad  %s  vol %3d%%%s", power, int(st.Volume*100+0.5), devices))

	sections := []string{
		"",
		header,
		"",
		widgets.RenderDisplay(m.Theme, st.LastPlayedName, st.Powered),
		widgets.RenderPadGrid(m.Theme, m.padViews()),
		"",
		widgets.RenderSlider(m.Theme, st.Volume, sliderWidth),
		widgets.RenderPower(m.Theme, st.Powered),
		"",
		m.help.ShortHelpView(m.keys.ShortHelp()),
	}
	const (
		gridSection   = 4
		sliderSection = 6
		powerSection  = 7
	)

	y := 0
	for i, s := range sections {
		switch i {
		case gridSection:
			m.bounds.gridTop = y
		case sliderSection:
			m.bounds.sliderTop = y
		case powerSection:
			m.bounds.powerTop = y
		}
		y += lipgloss.Height(s)
	}

	return strings.Join(sections, "\n")
}
