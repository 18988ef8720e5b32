package machine

import (
	"testing"

	"go-drumpad/debug"
)

func TestTriggerPoweredSetsName(t *testing.T) {
	m, _, _ := newTestMachine(true)

	for i, s := range m.Samples() {
		m.OnPadActivated(i)
		if got := m.DisplayName(); got != s.Name {
			t.Errorf("pad %d: display = %q, want %q", i, got, s.Name)
		}
	}
}

func TestTriggerUnpoweredKeepsName(t *testing.T) {
	m, loader, _ := newTestMachine(true)
	m.OnPadActivated(4)
	m.OnPowerToggle()
	m.OnPowerToggle() // back on, name was blanked by power-off
	m.OnPadActivated(1)
	m.controller.SetPowered(false)

	var before [NumPads]int
	for i := range before {
		before[i] = len(loader.handle(i).starts)
	}

	for i := 0; i < NumPads; i++ {
		m.OnPadActivated(i)
		if got := m.DisplayName(); got != "" {
			t.Fatalf("unpowered trigger %d changed name to %q", i, got)
		}
	}
	for i := 0; i < NumPads; i++ {
		if n := len(loader.handle(i).starts) - before[i]; n != 0 {
			t.Errorf("pad %d played %d times while unpowered", i, n)
		}
	}
}

func TestUnpoweredTriggerStillPulses(t *testing.T) {
	m, _, _ := newTestMachine(false)

	m.OnPadActivated(3)
	if !m.IsPadActive(3) {
		t.Fatal("pad 3 should pulse while unpowered")
	}
	if got := m.PadActiveStyle(3); got != StyleOff {
		t.Errorf("style = %v, want off", got)
	}
}

func TestPowerOffClearsName(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Machine)
	}{
		{"after trigger", func(m *Machine) { m.OnPadActivated(0) }},
		{"never played", func(m *Machine) {}},
		{"already off", func(m *Machine) { m.OnPadActivated(2); m.controller.SetPowered(false) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestMachine(true)
			tt.setup(m)
			m.controller.SetPowered(false)
			if got := m.DisplayName(); got != "" {
				t.Errorf("display = %q after power off", got)
			}
			if m.Powered() {
				t.Error("still powered")
			}
		})
	}
}

func TestPowerOnDoesNotReplay(t *testing.T) {
	m, loader, _ := newTestMachine(false)
	m.OnPowerToggle()

	for i := 0; i < NumPads; i++ {
		if n := len(loader.handle(i).starts); n != 0 {
			t.Errorf("pad %d played %d times on power on", i, n)
		}
	}
	if m.DisplayName() != "" {
		t.Errorf("display = %q after power on", m.DisplayName())
	}
}

func TestVolumeAppliedAtTrigger(t *testing.T) {
	m, loader, _ := newTestMachine(true)

	m.OnVolumeSliderChanged(0.3)
	m.OnPadActivated(5)

	h := loader.handle(5)
	if len(h.volumes) != 1 || h.volumes[0] != 0.3 {
		t.Fatalf("played at volumes %v, want [0.3]", h.volumes)
	}

	// a sound in flight keeps its level
	m.OnVolumeSliderChanged(0.9)
	if h.volume != 0.3 {
		t.Errorf("in-flight volume = %v, want 0.3", h.volume)
	}
	m.OnPadActivated(5)
	if h.volumes[1] != 0.9 {
		t.Errorf("second trigger volume = %v, want 0.9", h.volumes[1])
	}
}

func TestVolumeLeavesIdleHandlesUntilTrigger(t *testing.T) {
	m, loader, _ := newTestMachine(true)
	m.OnVolumeSliderChanged(0.6)

	for i := 0; i < NumPads; i++ {
		if v := loader.handle(i).volume; v != 0 {
			t.Errorf("pad %d volume = %v before any trigger, want untouched", i, v)
		}
	}

	m.OnPadActivated(2)
	if v := loader.handle(2).volume; v != 0.6 {
		t.Errorf("pad 2 volume after trigger = %v, want 0.6", v)
	}
	if v := loader.handle(3).volume; v != 0 {
		t.Errorf("pad 3 volume = %v, want untouched", v)
	}
}

func TestVolumeClamped(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{1.7, 1},
		{0.25, 0.25},
		{0, 0},
		{1, 1},
	}
	for _, tt := range tests {
		m, _, _ := newTestMachine(true)
		m.OnVolumeSliderChanged(tt.in)
		if got := m.Volume(); got != tt.want {
			t.Errorf("SetVolume(%v) -> %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRetriggerRestartsFromZero(t *testing.T) {
	m, loader, _ := newTestMachine(true)

	m.OnPadActivated(2)
	m.OnPadActivated(2)

	h := loader.handle(2)
	if len(h.starts) != 2 {
		t.Fatalf("played %d times, want 2", len(h.starts))
	}
	for n, pos := range h.starts {
		if pos != 0 {
			t.Errorf("start %d at position %d, want 0", n, pos)
		}
	}
	if h.rewinds != 2 {
		t.Errorf("rewinds = %d, want 2", h.rewinds)
	}
}

func TestPlaybackFailureSwallowed(t *testing.T) {
	loader := newFakeLoader()
	loader.fail[DefaultKit[7].File] = errDecode
	m, err := New(Options{Kit: DefaultKit, Loader: loader, Scheduler: &fakeScheduler{}, Volume: 1, Powered: true})
	if err != nil {
		t.Fatal(err)
	}

	m.OnPadActivated(0)
	m.OnPadActivated(7) // broken sample

	if !m.IsPadActive(7) {
		t.Error("pulse must not depend on playback")
	}
	if got := m.DisplayName(); got != DefaultKit[0].Name {
		t.Errorf("display = %q, want previous name kept", got)
	}

	m.OnPadActivated(8)
	if got := m.DisplayName(); got != DefaultKit[8].Name {
		t.Errorf("controller stopped working after failure: %q", got)
	}
}

func TestInvalidIndexIsNoop(t *testing.T) {
	m, _, sched := newTestMachine(true)

	m.OnPadActivated(-1)
	m.OnPadActivated(NumPads)

	if m.DisplayName() != "" || len(sched.calls) != 0 {
		t.Error("out of range trigger had an effect")
	}
}

func TestInvalidIndexPanicsWhenStrict(t *testing.T) {
	debug.Strict = true
	defer func() { debug.Strict = false }()

	m, _, _ := newTestMachine(true)
	defer func() {
		if recover() == nil {
			t.Error("expected panic in strict mode")
		}
	}()
	m.OnPadActivated(9)
}

func TestEchoSendsNote(t *testing.T) {
	m, _, _ := newTestMachine(true)
	sink := &fakeSink{}
	m.SetEcho(sink)

	m.OnVolumeSliderChanged(0.5)
	m.OnPadActivated(8)
	m.controller.SetPowered(false)
	m.OnPadActivated(8)

	if len(sink.notes) != 1 {
		t.Fatalf("echoed %d notes, want 1", len(sink.notes))
	}
	if got := sink.notes[0]; got.note != DefaultKit[8].Note || got.velocity != 64 {
		t.Errorf("echo = %+v", got)
	}
}

func TestOnChangeNotified(t *testing.T) {
	m, _, _ := newTestMachine(true)
	changes := 0
	m.OnChange(func() { changes++ })

	m.OnPadActivated(0)
	m.OnVolumeSliderChanged(0.4)
	m.OnVolumeSliderChanged(0.4) // no change
	m.OnPowerToggle()

	if changes != 3 {
		t.Errorf("changes = %d, want 3", changes)
	}
}
