package midi

import (
	"fmt"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-drumpad/debug"
)

// Echo forwards every audible trigger as a note to an external synth or
// drum module. Drum voices ignore note length, so note-off follows at once.
type Echo struct {
	port    string
	channel uint8
	send    func(gomidi.Message) error
}

// OpenEcho opens the output port whose name contains portName
func OpenEcho(portName string, channel uint8) (*Echo, error) {
	want := strings.ToLower(portName)
	for _, port := range gomidi.GetOutPorts() {
		if !strings.Contains(strings.ToLower(port.String()), want) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With(fmt.Sprintf("open echo port %s", port.String())))
		}
		return &Echo{port: port.String(), channel: channel & 0x0F, send: send}, nil
	}
	return nil, fault.Wrap(fault.New(fmt.Sprintf("echo port %q not found", portName)), ftag.With(ftag.NotFound))
}

// Port returns the name of the opened port
func (e *Echo) Port() string {
	return e.port
}

// Note implements machine.NoteSink
func (e *Echo) Note(note, velocity uint8) {
	if err := e.send(gomidi.NoteOn(e.channel, note, velocity)); err != nil {
		debug.Log("echo", "note on %d: %v", note, err)
		return
	}
	if err := e.send(gomidi.NoteOff(e.channel, note)); err != nil {
		debug.Log("echo", "note off %d: %v", note, err)
	}
}
