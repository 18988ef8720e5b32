package midi

import (
	"go-drumpad/debug"
	"go-drumpad/machine"
)

// PadColor picks the LED color for a pad state
type PadColor func(active bool, style machine.Style) [3]uint8

// ledTarget lights one controller pad as a pulse target
type ledTarget struct {
	ctrl  Controller
	pad   int
	color PadColor
}

func (t ledTarget) Show(active bool, style machine.Style) {
	if err := t.ctrl.SetPadRGB(t.pad, t.color(active, style), ChannelStatic); err != nil {
		debug.Log("lp-out", "pad %d: %v", t.pad, err)
	}
}

// LEDTargets returns one visual target per pad backed by ctrl's lights
func LEDTargets(ctrl Controller, color PadColor) [machine.NumPads]machine.Target {
	var targets [machine.NumPads]machine.Target
	for i := range targets {
		targets[i] = ledTarget{ctrl: ctrl, pad: i, color: color}
	}
	return targets
}
