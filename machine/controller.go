package machine

import (
	"fmt"
	"math"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"go-drumpad/debug"
)

// Snapshot is a read-only copy of the playback state
type Snapshot struct {
	Volume         float64
	Powered        bool
	LastPlayedName string
}

// NoteSink receives a note for every audible trigger (MIDI echo)
type NoteSink interface {
	Note(note, velocity uint8)
}

// Controller is the single mutator of playback state and sample handles.
// All methods must be called from the event loop.
type Controller struct {
	bank     *Bank
	feedback *Feedback
	state    Snapshot
	echo     NoteSink
	onChange func()
}

// NewController creates a controller with the given initial volume and power
func NewController(bank *Bank, feedback *Feedback, volume float64, powered bool) *Controller {
	c := &Controller{
		bank:     bank,
		feedback: feedback,
		state:    Snapshot{Powered: powered},
	}
	c.state.Volume = clampVolume(volume)
	return c
}

// SetEcho attaches (or with nil, detaches) a note sink
func (c *Controller) SetEcho(s NoteSink) {
	c.echo = s
}

// OnChange registers a callback run after every state change
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// Trigger plays pad i from the start. Unpowered, only the pad pulses.
// Playback errors are logged and dropped; the pulse happens regardless.
func (c *Controller) Trigger(i int) {
	if !ValidIndex(i) {
		err := invalidIndex("trigger", i)
		if debug.Strict {
			panic(err)
		}
		debug.Error("trigger", err)
		return
	}

	if !c.state.Powered {
		c.feedback.Pulse(i, StyleOff)
		c.changed()
		return
	}

	s := c.bank.samples[i]
	err := restart(s.handle, c.state.Volume)
	c.feedback.Pulse(i, StyleOn)

	if c.echo != nil && c.state.Volume > 0 {
		c.echo.Note(s.Note, velocity(c.state.Volume))
	}

	if err != nil {
		debug.Error("trigger", err)
	} else {
		c.state.LastPlayedName = s.Name
	}
	c.changed()
}

// restart rewinds, applies volume and plays; last trigger wins
func restart(h Handle, volume float64) error {
	if err := h.Rewind(); err != nil {
		return err
	}
	h.SetVolume(volume)
	return h.Play()
}

// SetVolume stores v clamped to [0,1]. It takes effect on the next
// trigger; sounds already playing keep their level. NaN is ignored.
func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		debug.Error("volume", fault.Wrap(fault.New("volume is NaN"), ftag.With(InvalidVolume)))
		return
	}
	clamped := clampVolume(v)
	if clamped != v {
		debug.Error("volume", fault.Wrap(
			fault.New(fmt.Sprintf("volume %.3f clamped to %.3f", v, clamped)),
			ftag.With(InvalidVolume),
		))
	}
	if clamped == c.state.Volume {
		return
	}
	c.state.Volume = clamped
	c.changed()
}

// SetPowered flips the power flag. Powering off blanks the display;
// powering on replays nothing.
func (c *Controller) SetPowered(p bool) {
	prev := c.state
	c.state.Powered = p
	if !p {
		c.state.LastPlayedName = ""
	}
	if c.state != prev {
		c.changed()
	}
}

// TogglePower is the power button
func (c *Controller) TogglePower() {
	c.SetPowered(!c.state.Powered)
}

// State returns a snapshot for rendering
func (c *Controller) State() Snapshot {
	return c.state
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func clampVolume(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// velocity maps volume to a MIDI velocity, never 0 (that would be a note-off)
func velocity(volume float64) uint8 {
	v := uint8(math.Round(volume * 127))
	if v == 0 {
		v = 1
	}
	return v
}
