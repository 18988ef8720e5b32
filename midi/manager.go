package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-drumpad/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// portTimeout bounds a port listing (CoreMIDI can hang)
const portTimeout = 3 * time.Second

// DeviceManager handles hot-plug detection of MIDI controllers
type DeviceManager struct {
	controllers map[string]Controller
	launchpads  bool     // open Launchpad ports as they appear
	keyboards   []string // lower-cased port name fragments treated as keyboards
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a device manager. Launchpads are detected when
// launchpads is set; other inputs only when their name contains one of
// keyboards.
func NewDeviceManager(launchpads bool, keyboards ...string) *DeviceManager {
	dm := &DeviceManager{
		controllers: make(map[string]Controller),
		launchpads:  launchpads,
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
	for _, k := range keyboards {
		if k = strings.TrimSpace(strings.ToLower(k)); k != "" {
			dm.keyboards = append(dm.keyboards, k)
		}
	}
	return dm
}

// Events returns a channel of device connect/disconnect events. It is
// closed when Run returns.
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	var result portsResult
	select {
	case result = <-ch:
	case <-time.After(portTimeout):
		debug.Log("devices", "port listing timed out, skipping scan")
		return
	case <-ctx.Done():
		return
	}

	seen := make(map[string]bool)
	for _, in := range result.inPorts {
		id := in.String()
		kind := dm.classify(id)
		if kind == ControllerUnknown {
			continue
		}
		seen[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		c, err := dm.open(kind, id, in, matchOut(id, result.outPorts))
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = c
		dm.mu.Unlock()

		debug.Log("devices", "connected %s (%s)", id, kind)
		if !dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Controller: c, ID: id}) {
			return
		}
	}

	dm.mu.Lock()
	var gone []string
	for id, c := range dm.controllers {
		if !seen[id] {
			c.Close()
			delete(dm.controllers, id)
			gone = append(gone, id)
		}
	}
	dm.mu.Unlock()

	for _, id := range gone {
		debug.Log("devices", "disconnected %s", id)
		if !dm.emit(ctx, DeviceEvent{Type: DeviceDisconnected, ID: id}) {
			return
		}
	}
}

// emit blocks until the event is taken or ctx ends
func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) bool {
	select {
	case dm.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (dm *DeviceManager) open(kind ControllerType, id string, in drivers.In, out drivers.Out) (Controller, error) {
	if kind == ControllerLaunchpad {
		return NewLaunchpadController(id, in, out)
	}
	return NewKeyboardController(id, in)
}

// classify decides what a port is from its name
func (dm *DeviceManager) classify(name string) ControllerType {
	name = strings.ToLower(name)
	if isLaunchpad(name) {
		if !dm.launchpads {
			return ControllerUnknown
		}
		return ControllerLaunchpad
	}
	for _, k := range dm.keyboards {
		if strings.Contains(name, k) {
			return ControllerKeyboard
		}
	}
	return ControllerUnknown
}

func matchOut(name string, outs []drivers.Out) drivers.Out {
	name = strings.ToLower(name)
	for _, op := range outs {
		if strings.ToLower(op.String()) == name {
			return op
		}
	}
	return nil
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
