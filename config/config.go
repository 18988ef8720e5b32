package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-drumpad/machine"
)

// ControllerType identifies the kind of controller
type ControllerType string

const (
	ControllerLaunchpadX    ControllerType = "launchpad-x"
	ControllerLaunchpadMini ControllerType = "launchpad-mini"
	ControllerKeyboard      ControllerType = "keyboard"
)

// ControllerConfig defines a saved controller configuration
type ControllerConfig struct {
	PortName    string         `json:"portName"`
	Type        ControllerType `json:"type"`
	AutoConnect bool           `json:"autoConnect"`
}

// PadConfig is one pad of the kit
type PadConfig struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	File string `json:"file"`
	Note uint8  `json:"note,omitempty"`
}

// EchoConfig sends a MIDI note per trigger to an external synth
type EchoConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  uint8  `json:"channel,omitempty"` // 0-15, GM drums live on 9
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette      string `json:"palette,omitempty"` // GPL file, empty for built-in
	PulseMs      int    `json:"pulseMs,omitempty"`
	ReleaseGapMs int    `json:"releaseGapMs,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	SampleDir   string             `json:"sampleDir,omitempty"`
	Pads        []PadConfig        `json:"pads,omitempty"`
	Volume      float64            `json:"volume"`
	StartMuted  bool               `json:"startMuted,omitempty"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	Echo        EchoConfig         `json:"echo,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
}

const (
	defaultPulseMs      = 100
	defaultReleaseGapMs = 550
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	pads := make([]PadConfig, 0, machine.NumPads)
	for _, e := range machine.DefaultKit {
		pads = append(pads, PadConfig{Key: e.Key, Name: e.Name, File: e.File, Note: e.Note})
	}
	return &Config{
		SampleDir: "soundpad",
		Pads:      pads,
		Volume:    0.5,
		Controllers: []ControllerConfig{
			{
				PortName:    "Launchpad X LPX MIDI",
				Type:        ControllerLaunchpadX,
				AutoConnect: true,
			},
		},
		Echo: EchoConfig{Channel: 9},
		UI: UIConfig{
			PulseMs:      defaultPulseMs,
			ReleaseGapMs: defaultReleaseGapMs,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drumpad"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Missing fields keep their defaults;
// a missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("parse %s", path)), ftag.With(ftag.InvalidArgument))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges and that no two pads share a MIDI note
// (0 means no note). Key uniqueness is checked when the machine builds its
// key map.
func (c *Config) Validate() error {
	if len(c.Pads) != machine.NumPads {
		return invalid(fmt.Sprintf("need %d pads, got %d", machine.NumPads, len(c.Pads)))
	}
	notes := make(map[uint8]int, len(c.Pads))
	for i, p := range c.Pads {
		if p.Note > 127 {
			return invalid(fmt.Sprintf("pad %d: note %d outside 0-127", i, p.Note))
		}
		if p.Note == 0 {
			continue
		}
		if prev, dup := notes[p.Note]; dup {
			return invalid(fmt.Sprintf("note %d used by pads %d and %d", p.Note, prev, i))
		}
		notes[p.Note] = i
	}
	if c.Volume < 0 || c.Volume > 1 {
		return invalid(fmt.Sprintf("volume %.2f outside [0,1]", c.Volume))
	}
	if c.Echo.Channel > 15 {
		return invalid(fmt.Sprintf("echo channel %d outside 0-15", c.Echo.Channel))
	}
	if c.UI.PulseMs < 0 || c.UI.ReleaseGapMs < 0 {
		return invalid("durations must not be negative")
	}
	return nil
}

func invalid(msg string) error {
	return fault.Wrap(fault.New(msg), fmsg.With("invalid config"), ftag.With(ftag.InvalidArgument))
}

// Kit returns the pads as a machine kit
func (c *Config) Kit() [machine.NumPads]machine.KitEntry {
	var kit [machine.NumPads]machine.KitEntry
	for i := 0; i < machine.NumPads && i < len(c.Pads); i++ {
		p := c.Pads[i]
		kit[i] = machine.KitEntry{Key: p.Key, Name: p.Name, File: p.File, Note: p.Note}
	}
	return kit
}

// PulseWindow returns the pad pulse duration
func (c *Config) PulseWindow() time.Duration {
	if c.UI.PulseMs <= 0 {
		return defaultPulseMs * time.Millisecond
	}
	return time.Duration(c.UI.PulseMs) * time.Millisecond
}

// ReleaseGap is how long a terminal key must stay quiet before it counts as
// released (terminals report no key-up)
func (c *Config) ReleaseGap() time.Duration {
	if c.UI.ReleaseGapMs <= 0 {
		return defaultReleaseGapMs * time.Millisecond
	}
	return time.Duration(c.UI.ReleaseGapMs) * time.Millisecond
}

// LaunchpadAutoConnect reports whether Launchpads should be opened when
// they appear. Only a Launchpad entry with autoConnect enables it.
func (c *Config) LaunchpadAutoConnect() bool {
	for _, ctrl := range c.AutoConnectControllers() {
		switch ctrl.Type {
		case ControllerLaunchpadX, ControllerLaunchpadMini:
			return true
		}
	}
	return false
}

// AutoConnectControllers returns controllers with autoConnect enabled
func (c *Config) AutoConnectControllers() []ControllerConfig {
	var result []ControllerConfig
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl)
		}
	}
	return result
}
