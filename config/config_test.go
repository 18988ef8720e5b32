package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Southclaws/fault/ftag"

	"go-drumpad/machine"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Kit() != machine.DefaultKit {
		t.Error("default kit differs from machine.DefaultKit")
	}
	if cfg.PulseWindow() != 100*time.Millisecond {
		t.Errorf("pulse = %v", cfg.PulseWindow())
	}
	if cfg.ReleaseGap() != 550*time.Millisecond {
		t.Errorf("release gap = %v", cfg.ReleaseGap())
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Volume != 0.5 || len(cfg.Pads) != machine.NumPads {
		t.Errorf("got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Volume = 0.8
	cfg.StartMuted = true
	cfg.Pads[4].Name = "Snap"
	cfg.Echo.PortName = "IAC Bus 1"
	cfg.UI.PulseMs = 150

	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Volume != 0.8 || !got.StartMuted || got.Pads[4].Name != "Snap" ||
		got.Echo.PortName != "IAC Bus 1" || got.PulseWindow() != 150*time.Millisecond {
		t.Errorf("round trip lost fields: %+v", got)
	}
}

func TestSaveWritesDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.SampleDir = "/srv/kits/heater"
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.SampleDir != "/srv/kits/heater" {
		t.Errorf("sample dir = %q", got.SampleDir)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"volume": 0.2, "ui": {"releaseGapMs": 300}}`), 0644)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Volume != 0.2 {
		t.Errorf("volume = %v", cfg.Volume)
	}
	if cfg.ReleaseGap() != 300*time.Millisecond {
		t.Errorf("release gap = %v", cfg.ReleaseGap())
	}
	if cfg.Kit() != machine.DefaultKit {
		t.Error("pads should fall back to the default kit")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad json":     `{"volume": `,
		"short kit":    `{"pads": [{"key": "q", "name": "Kick", "file": "k.wav"}]}`,
		"loud":         `{"volume": 3}`,
		"echo channel": `{"echo": {"channel": 16}}`,
		"negative":     `{"ui": {"pulseMs": -5}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			os.WriteFile(path, []byte(body), 0644)
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateNotes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pads[7].Note = cfg.Pads[0].Note
	if err := cfg.Validate(); err == nil {
		t.Error("two pads sharing a note accepted")
	}

	cfg = DefaultConfig()
	cfg.Pads[3].Note = 200
	if err := cfg.Validate(); err == nil {
		t.Error("note 200 accepted")
	}

	// pads without a note do not collide
	cfg = DefaultConfig()
	cfg.Pads[1].Note = 0
	cfg.Pads[2].Note = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("unset notes rejected: %v", err)
	}
}

func TestAutoConnectControllers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Controllers = append(cfg.Controllers, ControllerConfig{PortName: "Keystation", Type: ControllerKeyboard})

	auto := cfg.AutoConnectControllers()
	if len(auto) != 1 || auto[0].Type != ControllerLaunchpadX {
		t.Errorf("auto = %+v", auto)
	}
}

func TestLaunchpadAutoConnect(t *testing.T) {
	tests := []struct {
		name  string
		ctrls []ControllerConfig
		want  bool
	}{
		{"default", DefaultConfig().Controllers, true},
		{"mini", []ControllerConfig{{PortName: "LPMiniMK3 MIDI", Type: ControllerLaunchpadMini, AutoConnect: true}}, true},
		{"switched off", []ControllerConfig{{PortName: "Launchpad X LPX MIDI", Type: ControllerLaunchpadX}}, false},
		{"keyboard only", []ControllerConfig{{PortName: "Keystation", Type: ControllerKeyboard, AutoConnect: true}}, false},
		{"none", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Controllers = tt.ctrls
			if got := cfg.LaunchpadAutoConnect(); got != tt.want {
				t.Errorf("LaunchpadAutoConnect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLaunchpadAutoConnectFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"controllers": [{"portName": "Launchpad X LPX MIDI", "type": "launchpad-x", "autoConnect": false}]}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LaunchpadAutoConnect() {
		t.Error("autoConnect:false in the file still enables Launchpads")
	}
}

func TestDuplicateKeysRejectedByMachine(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pads[1].Key = "Q" // collides with pad 0 once lower-cased

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	_, err := machine.New(machine.Options{Kit: cfg.Kit()})
	if err == nil {
		t.Fatal("duplicate key accepted")
	}
	if ftag.Get(err) != ftag.InvalidArgument {
		t.Errorf("kind = %q, want %q", ftag.Get(err), ftag.InvalidArgument)
	}
}
