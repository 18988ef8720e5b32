package midi

import (
	"fmt"
	"sync"

	"go-drumpad/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// KeyboardController handles a standard MIDI keyboard or drum pad controller.
// Notes are matched to pads by their General MIDI drum note.
type KeyboardController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu       sync.Mutex // guards closed and sends on the channels
	padChan  chan PadEvent
	noteChan chan NoteEvent
	closed   bool
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		inPort:   inPort,
		padChan:  make(chan PadEvent),
		noteChan: make(chan NoteEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, kb.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

func (kb *KeyboardController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8
	if !msg.GetNoteOn(&channel, &note, &velocity) || velocity == 0 {
		return
	}

	kb.mu.Lock()
	defer kb.mu.Unlock()
	if kb.closed {
		return
	}
	select {
	case kb.noteChan <- NoteEvent{Note: note, Velocity: velocity, Channel: channel}:
	default:
		debug.Log("kb-in", "note dropped: %d", note)
	}
}

func (kb *KeyboardController) ID() string {
	return kb.id
}

func (kb *KeyboardController) Type() ControllerType {
	return ControllerKeyboard
}

func (kb *KeyboardController) PadEvents() <-chan PadEvent {
	return kb.padChan // keyboards don't have pads
}

func (kb *KeyboardController) NoteEvents() <-chan NoteEvent {
	return kb.noteChan
}

// SetPadRGB is a no-op for keyboards (no visual feedback)
func (kb *KeyboardController) SetPadRGB(pad int, rgb [3]uint8, channel uint8) error {
	return nil
}

func (kb *KeyboardController) ClearPads() error {
	return nil
}

func (kb *KeyboardController) Close() error {
	kb.mu.Lock()
	if kb.closed {
		kb.mu.Unlock()
		return nil
	}
	kb.closed = true
	close(kb.padChan)
	close(kb.noteChan)
	kb.mu.Unlock()

	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	return nil
}
