package machine

import (
	"time"
)

// Options configures a Machine
type Options struct {
	Kit         [NumPads]KitEntry
	Loader      Loader
	Scheduler   Scheduler
	PulseWindow time.Duration // <= 0 selects DefaultPulse
	Volume      float64
	Powered     bool
}

// Machine wires the bank, controller, feedback and router together and is
// the whole surface the presentation shell talks to.
type Machine struct {
	bank       *Bank
	keys       KeyMap
	feedback   *Feedback
	controller *Controller
	router     *Router
	hub        *KeyHub
}

// New builds a machine. The key map is validated here; sample load
// failures are not errors (those pads play silently).
func New(opts Options) (*Machine, error) {
	keys, err := NewKeyMap(Keys(opts.Kit))
	if err != nil {
		return nil, err
	}

	bank := NewBank(opts.Kit, opts.Loader)
	feedback := NewFeedback(opts.PulseWindow, opts.Scheduler)
	controller := NewController(bank, feedback, opts.Volume, opts.Powered)

	return &Machine{
		bank:       bank,
		keys:       keys,
		feedback:   feedback,
		controller: controller,
		router:     NewRouter(keys, controller.Trigger),
		hub:        &KeyHub{},
	}, nil
}

// Start installs the keyboard binding
func (m *Machine) Start() {
	m.router.Start(m.hub)
}

// Close removes the keyboard binding and cancels pending pulses
func (m *Machine) Close() {
	m.router.Stop()
	m.feedback.Reset()
	m.feedback.Unmount()
}

// Inbound

// OnPadActivated is a pointer click (or grid controller press) on pad i
func (m *Machine) OnPadActivated(i int) {
	m.controller.Trigger(i)
}

func (m *Machine) OnKeyDown(key string) {
	m.hub.KeyDown(key)
}

func (m *Machine) OnKeyUp(key string) {
	m.hub.KeyUp(key)
}

func (m *Machine) OnVolumeSliderChanged(v float64) {
	m.controller.SetVolume(v)
}

func (m *Machine) OnPowerToggle() {
	m.controller.TogglePower()
}

// Expire applies a pulse clear delivered by the scheduler
func (m *Machine) Expire(e Expiry) bool {
	return m.feedback.Expire(e)
}

// Mount attaches visual targets for pulses
func (m *Machine) Mount(targets [NumPads]Target) {
	m.feedback.Mount(targets)
}

func (m *Machine) Unmount() {
	m.feedback.Unmount()
}

// SetEcho attaches a MIDI echo sink
func (m *Machine) SetEcho(s NoteSink) {
	m.controller.SetEcho(s)
}

// OnChange registers a state change callback
func (m *Machine) OnChange(fn func()) {
	m.controller.OnChange(fn)
}

// Outbound

func (m *Machine) DisplayName() string {
	return m.controller.State().LastPlayedName
}

func (m *Machine) Volume() float64 {
	return m.controller.State().Volume
}

func (m *Machine) Powered() bool {
	return m.controller.State().Powered
}

func (m *Machine) State() Snapshot {
	return m.controller.State()
}

func (m *Machine) IsPadActive(i int) bool {
	return m.feedback.Active(i)
}

func (m *Machine) PadActiveStyle(i int) Style {
	return m.feedback.Style(i)
}

func (m *Machine) Samples() [NumPads]Sample {
	return m.bank.Samples()
}

// Key returns the trigger key of pad i
func (m *Machine) Key(i int) string {
	return m.keys.Key(i)
}

// PadForKey returns the pad bound to key
func (m *Machine) PadForKey(key string) (int, bool) {
	return m.keys.Lookup(key)
}

// PadForNote returns the first pad echoing the given MIDI note
func (m *Machine) PadForNote(note uint8) (int, bool) {
	for _, s := range m.bank.samples {
		if s.Note == note {
			return s.Index, true
		}
	}
	return -1, false
}
