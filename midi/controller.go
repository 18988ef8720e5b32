package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
	ControllerKeyboard
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	case ControllerKeyboard:
		return "keyboard"
	}
	return "unknown"
}

// PadEvent is sent when one of the nine drum pads is pressed or released
type PadEvent struct {
	Pad      int
	Pressed  bool
	Velocity uint8
}

// NoteEvent is sent when a note is played on a keyboard
type NoteEvent struct {
	Note     uint8
	Velocity uint8
	Channel  uint8
}

// Controller is the interface for MIDI input devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Input events from the controller
	PadEvents() <-chan PadEvent   // grid controllers (Launchpad)
	NoteEvents() <-chan NoteEvent // keyboards

	// Output to the controller; no-ops on devices without lights
	SetPadRGB(pad int, rgb [3]uint8, channel uint8) error
	ClearPads() error

	// Lifecycle
	Close() error
}

// ChannelStatic is the SetPadRGB channel for a solid color
const ChannelStatic uint8 = 0
