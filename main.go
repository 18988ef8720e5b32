package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-drumpad/audio"
	"go-drumpad/config"
	"go-drumpad/debug"
	"go-drumpad/machine"
	"go-drumpad/midi"
	"go-drumpad/theme"
	"go-drumpad/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-drumpad/config.json)")
	sampleDir := flag.String("samples", "", "sample directory, overrides the config")
	debugMode := flag.Bool("debug", false, "write debug.log to the config dir and panic on invalid pad indices")
	noMIDI := flag.Bool("no-midi", false, "skip MIDI controller detection")
	writeConfig := flag.Bool("write-config", false, "write the effective config (defaults plus overrides) and exit")
	flag.Parse()

	if *writeConfig {
		if err := saveConfig(*configPath, *sampleDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*configPath, *sampleDir, *debugMode, *noMIDI); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, sampleDir string, debugMode, noMIDI bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if sampleDir != "" {
		cfg.SampleDir = sampleDir
	}

	if debugMode {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := debug.Enable(dir); err != nil {
			return err
		}
		defer debug.Disable()
		debug.Strict = true
	}

	th, err := loadTheme(cfg.UI.Palette)
	if err != nil {
		return err
	}

	// A missing audio device is not fatal: pads still pulse, nothing sounds.
	engine := audio.NewEngine(cfg.SampleDir)
	if err := engine.Init(); err != nil {
		debug.Error("audio", err)
		fmt.Fprintf(os.Stderr, "audio unavailable: %v\n", err)
	}
	defer engine.Close()

	sched := machine.NewTimerScheduler()
	defer sched.Close()

	m, err := machine.New(machine.Options{
		Kit:         cfg.Kit(),
		Loader:      engine,
		Scheduler:   sched,
		PulseWindow: cfg.PulseWindow(),
		Volume:      cfg.Volume,
		Powered:     !cfg.StartMuted,
	})
	if err != nil {
		return err
	}
	m.Start()
	defer m.Close()

	if !noMIDI && cfg.Echo.PortName != "" {
		echo, err := midi.OpenEcho(cfg.Echo.PortName, cfg.Echo.Channel)
		if err != nil {
			debug.Error("echo", err)
		} else {
			debug.Log("echo", "sending to %s ch %d", echo.Port(), cfg.Echo.Channel+1)
			m.SetEcho(echo)
		}
	}

	var deviceMgr *midi.DeviceManager
	if !noMIDI {
		deviceMgr = midi.NewDeviceManager(cfg.LaunchpadAutoConnect(), keyboardPorts(cfg)...)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go deviceMgr.Run(ctx)
	}

	model := tui.NewModel(m, sched.Expiries(), deviceMgr, th, cfg.ReleaseGap())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// saveConfig writes the loaded config back so it can be edited by hand
func saveConfig(path, sampleDir string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}
	if sampleDir != "" {
		cfg.SampleDir = sampleDir
	}
	if path == "" {
		return cfg.Save()
	}
	return cfg.SaveTo(path)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func loadTheme(palette string) (*theme.Theme, error) {
	if palette == "" {
		return theme.MustDefault(), nil
	}
	var (
		p   *theme.Palette
		err error
	)
	// files on disk win over built-ins of the same name
	if _, statErr := os.Stat(palette); statErr == nil {
		p, err = theme.LoadGPL(palette)
	} else {
		p, err = theme.Builtin(palette)
	}
	if err != nil {
		return nil, err
	}
	return theme.New(p), nil
}

// keyboardPorts lists the configured port names that should be read as
// note keyboards
func keyboardPorts(cfg *config.Config) []string {
	var ports []string
	for _, c := range cfg.AutoConnectControllers() {
		if c.Type == config.ControllerKeyboard {
			ports = append(ports, c.PortName)
		}
	}
	return ports
}
