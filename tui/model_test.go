package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-drumpad/machine"
	"go-drumpad/midi"
	"go-drumpad/theme"
)

type countingHandle struct{ plays *int }

func (h countingHandle) Rewind() error      { return nil }
func (h countingHandle) SetVolume(float64) {}
func (h countingHandle) Play() error        { *h.plays++; return nil }

type countingLoader struct{ plays int }

func (l *countingLoader) Load(string) (machine.Handle, error) {
	return countingHandle{plays: &l.plays}, nil
}

type nopScheduler struct{}

func (nopScheduler) After(time.Duration, machine.Expiry) func() { return func() {} }

func newTestModel(t *testing.T) (Model, *countingLoader) {
	t.Helper()
	loader := &countingLoader{}
	m, err := machine.New(machine.Options{
		Kit:       machine.DefaultKit,
		Loader:    loader,
		Scheduler: nopScheduler{},
		Volume:    1,
		Powered:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	m.Start()
	t.Cleanup(m.Close)
	return NewModel(m, nil, nil, theme.MustDefault(), 500*time.Millisecond), loader
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestKeyRepeatIsOnePress(t *testing.T) {
	m, loader := newTestModel(t)

	m, _ = update(t, m, runes("q"))
	first := m.press.held["q"]
	m, _ = update(t, m, runes("q")) // auto-repeat

	if loader.plays != 1 {
		t.Fatalf("plays = %d, want 1", loader.plays)
	}
	if m.Machine.DisplayName() != "Heater 1" {
		t.Errorf("display = %q", m.Machine.DisplayName())
	}

	// the first tick is stale once the repeat rearmed the release
	m, _ = update(t, m, releaseMsg{key: "q", token: first})
	m, _ = update(t, m, runes("q"))
	if loader.plays != 1 {
		t.Fatalf("stale release let a repeat through: plays = %d", loader.plays)
	}

	m, _ = update(t, m, releaseMsg{key: "q", token: m.press.held["q"]})
	if _, held := m.press.held["q"]; held {
		t.Error("q still held after its release")
	}
	m, _ = update(t, m, runes("Q"))
	if loader.plays != 2 {
		t.Errorf("press after release: plays = %d, want 2", loader.plays)
	}
}

func TestHelpNamesReleaseGap(t *testing.T) {
	m, _ := newTestModel(t)
	if out := m.View(); !strings.Contains(out, "re-tap after 500ms") {
		t.Errorf("help line does not mention the re-tap gap:\n%s", out)
	}
}

func TestPadKeyReturnsReleaseTick(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := update(t, m, runes("x"))
	if cmd == nil {
		t.Fatal("pad key returned no release command")
	}
}

func TestControlKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, runes("-"))
	if v := m.Machine.Volume(); v < 0.949 || v > 0.951 {
		t.Errorf("volume after '-' = %v", v)
	}
	m, _ = update(t, m, runes("+"))
	if v := m.Machine.Volume(); v != 1 {
		t.Errorf("volume after '+' = %v", v)
	}

	m, _ = update(t, m, runes("p"))
	if m.Machine.Powered() {
		t.Error("p did not toggle power")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil || !m.quitting {
		t.Error("ctrl+c did not quit")
	}
	if m.View() != "" {
		t.Error("view after quit should be empty")
	}
}

func TestMouseHitTest(t *testing.T) {
	m, loader := newTestModel(t)
	m.View()

	click := func(x, y int) {
		m, _ = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	}

	// centre of pad 4 (s)
	click(20, m.bounds.gridTop+6)
	if loader.plays != 1 || m.Machine.DisplayName() != "Clap" {
		t.Fatalf("pad click: plays=%d display=%q", loader.plays, m.Machine.DisplayName())
	}

	// mouse presses are not deduplicated
	click(20, m.bounds.gridTop+6)
	if loader.plays != 2 {
		t.Errorf("second click: plays = %d", loader.plays)
	}

	click(4, m.bounds.sliderTop)
	if v := m.Machine.Volume(); v != 0 {
		t.Errorf("slider left end volume = %v", v)
	}

	click(1, m.bounds.powerTop+1)
	if m.Machine.Powered() {
		t.Error("power click did not toggle")
	}

	// releases are ignored
	m, _ = update(t, m, tea.MouseMsg{X: 1, Y: m.bounds.powerTop + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.Machine.Powered() {
		t.Error("mouse release toggled power")
	}
}

type stubController struct {
	kind  midi.ControllerType
	pads  chan midi.PadEvent
	notes chan midi.NoteEvent
	lit   int
}

func (s *stubController) ID() string                        { return "stub" }
func (s *stubController) Type() midi.ControllerType         { return s.kind }
func (s *stubController) PadEvents() <-chan midi.PadEvent   { return s.pads }
func (s *stubController) NoteEvents() <-chan midi.NoteEvent { return s.notes }
func (s *stubController) ClearPads() error                  { return nil }
func (s *stubController) Close() error                      { return nil }
func (s *stubController) SetPadRGB(int, [3]uint8, uint8) error {
	s.lit++
	return nil
}

func TestLaunchpadPadsAndLEDs(t *testing.T) {
	m, loader := newTestModel(t)
	lp := &stubController{kind: midi.ControllerLaunchpad, pads: make(chan midi.PadEvent)}

	cmd := m.handleDevice(midi.DeviceEvent{Type: midi.DeviceConnected, Controller: lp, ID: "stub"})
	if cmd == nil {
		t.Fatal("no pad listener")
	}
	if m.lit != "stub" || lp.lit != machine.NumPads {
		t.Fatalf("mount: lit=%q leds=%d", m.lit, lp.lit)
	}

	m, _ = update(t, m, padMsg{id: "stub", ev: midi.PadEvent{Pad: 8, Pressed: true, Velocity: 100}})
	m, _ = update(t, m, padMsg{id: "stub", ev: midi.PadEvent{Pad: 8}})
	if loader.plays != 1 || m.Machine.DisplayName() != "Closed HH" {
		t.Errorf("pad 8: plays=%d display=%q", loader.plays, m.Machine.DisplayName())
	}

	m, _ = update(t, m, controllerGoneMsg{id: "stub"})
	if m.lit != "" || len(m.ctrls) != 0 {
		t.Error("controller not dropped")
	}
	if _, cmd := update(t, m, padMsg{id: "stub", ev: midi.PadEvent{Pad: 0, Pressed: true}}); cmd != nil || loader.plays != 1 {
		t.Error("event from a dropped controller was handled")
	}
}

func TestKeyboardNotes(t *testing.T) {
	m, loader := newTestModel(t)
	kb := &stubController{kind: midi.ControllerKeyboard, notes: make(chan midi.NoteEvent)}
	m.handleDevice(midi.DeviceEvent{Type: midi.DeviceConnected, Controller: kb, ID: "stub"})

	m, _ = update(t, m, noteMsg{id: "stub", ev: midi.NoteEvent{Note: 46, Velocity: 90}})
	if m.Machine.DisplayName() != "Open HH" {
		t.Errorf("note 46 display = %q", m.Machine.DisplayName())
	}
	m, _ = update(t, m, noteMsg{id: "stub", ev: midi.NoteEvent{Note: 60, Velocity: 90}})
	if loader.plays != 1 {
		t.Errorf("unmapped note played: plays = %d", loader.plays)
	}
}
