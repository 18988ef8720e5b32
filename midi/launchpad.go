package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-drumpad/debug"
	"go-drumpad/machine"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// LaunchpadController drives a Novation Launchpad in Programmer mode. The
// drum pads are the 3x3 block in the lower left corner of the grid.
type LaunchpadController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu       sync.Mutex // guards closed and sends on the channels
	padChan  chan PadEvent
	noteChan chan NoteEvent
	closed   bool
}

// NewLaunchpadController creates and configures a Launchpad
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:       id,
		inPort:   inPort,
		outPort:  outPort,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent),
	}

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send

		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))

		// Full brightness: F0 00 20 29 02 0C 08 7F F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	}

	// Open input
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, lp.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

// handle runs on the driver's goroutine; it only forwards
func (lp *LaunchpadController) handle(msg gomidi.Message, timestampms int32) {
	var channel, note, velocity uint8

	var ev PadEvent
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		ev = PadEvent{Pressed: velocity > 0, Velocity: velocity}
	case msg.GetNoteOff(&channel, &note, &velocity):
		ev = PadEvent{Pressed: false}
	default:
		return
	}

	ev.Pad = noteToPad(note)
	if ev.Pad < 0 {
		return
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.closed {
		return
	}
	select {
	case lp.padChan <- ev:
	default:
		debug.Log("lp-in", "pad event dropped: %+v", ev)
	}
}

func (lp *LaunchpadController) ID() string {
	return lp.id
}

func (lp *LaunchpadController) Type() ControllerType {
	return ControllerLaunchpad
}

func (lp *LaunchpadController) PadEvents() <-chan PadEvent {
	return lp.padChan
}

func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent {
	return lp.noteChan // never sends
}

func (lp *LaunchpadController) SetPadRGB(pad int, rgb [3]uint8, channel uint8) error {
	if lp.send == nil || !machine.ValidIndex(pad) {
		return nil
	}
	atomic.AddUint64(&ledSendCount, 1)
	return lp.send(gomidi.NoteOn(channel, padToNote(pad), mapRGBToLaunchpad(rgb)))
}

// ClearPads turns off the nine pad LEDs
func (lp *LaunchpadController) ClearPads() error {
	if lp.send == nil {
		return nil
	}
	for pad := 0; pad < machine.NumPads; pad++ {
		if err := lp.send(gomidi.NoteOn(ChannelStatic, padToNote(pad), 0)); err != nil {
			return err
		}
	}
	atomic.AddUint64(&ledSendCount, machine.NumPads)
	return nil
}

// Close darkens the pads and stops listening. Events still in flight from
// the driver are dropped.
func (lp *LaunchpadController) Close() error {
	lp.mu.Lock()
	if lp.closed {
		lp.mu.Unlock()
		return nil
	}
	lp.closed = true
	close(lp.padChan)
	close(lp.noteChan)
	lp.mu.Unlock()

	lp.ClearPads()
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	debug.Log("lp", "closed %s after %d LED sends", lp.id, atomic.LoadUint64(&ledSendCount))
	return nil
}

// mapRGBToLaunchpad finds the nearest Launchpad X palette color for an RGB value
func mapRGBToLaunchpad(rgb [3]uint8) uint8 {
	// Launchpad X palette - approximate RGB values for key colors
	// Format: {velocity, R, G, B}
	palette := [][4]uint8{
		{0, 0, 0, 0},         // off
		{1, 30, 30, 30},      // dim white
		{5, 255, 0, 0},       // red
		{7, 180, 60, 60},     // dim red
		{9, 255, 100, 0},     // orange
		{11, 180, 80, 40},    // dim orange
		{13, 255, 200, 0},    // yellow
		{19, 0, 100, 0},      // dim green
		{21, 0, 255, 0},      // bright green
		{37, 0, 200, 200},    // cyan
		{43, 40, 60, 120},    // dim blue
		{45, 0, 100, 255},    // blue
		{49, 150, 0, 200},    // purple
		{53, 255, 80, 180},   // pink
		{78, 100, 100, 255},  // light blue
		{84, 255, 150, 50},   // bright orange
		{87, 150, 255, 100},  // lime
		{119, 255, 255, 255}, // white
	}

	bestMatch := uint8(0)
	bestDist := 1 << 30

	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			bestMatch = p[0]
		}
	}

	return bestMatch
}

// Programmer mode note layout: row 0 (bottom) = notes 11-18, row 7 = 81-88.
// Pad 0 (top left of the drum grid) sits on row 2, so the block reads the
// same way as the keyboard:
//
//	31 32 33    q w e
//	21 22 23    a s d
//	11 12 13    z x c

func padToNote(pad int) uint8 {
	row := 2 - pad/3
	col := pad % 3
	return uint8((row+1)*10 + col + 1)
}

// noteToPad returns -1 for notes outside the drum block
func noteToPad(note uint8) int {
	row := int(note/10) - 1
	col := int(note%10) - 1
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return -1
	}
	return (2-row)*3 + col
}
