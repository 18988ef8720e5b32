package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-drumpad/config"
	"go-drumpad/machine"
	"go-drumpad/midi"
	"go-drumpad/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "watch":
		watch(os.Args[2:])
	case "leds":
		testLEDs()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Drum pad MIDI monitor")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list              - List all MIDI ports")
	fmt.Println("  watch [keyboard]  - Print pad hits from a Launchpad or note keyboard")
	fmt.Println("  leds              - Light the Launchpad drum block once per pad")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: gomidi.GetInPorts(), outs: gomidi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

// kit returns the configured kit, falling back to the default one
func kit() [machine.NumPads]machine.KitEntry {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v (using default kit)\n", err)
		return machine.DefaultKit
	}
	return cfg.Kit()
}

func watch(keyboards []string) {
	k := kit()
	dm := midi.NewDeviceManager(true, keyboards...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go dm.Run(ctx)

	fmt.Println("Waiting for controllers. Ctrl+C to exit.")

	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] + %s (%s)\n", time.Now().Format("15:04:05"), ev.ID, ev.Controller.Type())
			go printHits(ev.Controller, k)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] - %s\n", time.Now().Format("15:04:05"), ev.ID)
		}
	}
}

func printHits(c midi.Controller, k [machine.NumPads]machine.KitEntry) {
	pads, notes := c.PadEvents(), c.NoteEvents()
	for pads != nil || notes != nil {
		select {
		case ev, ok := <-pads:
			if !ok {
				pads = nil
				continue
			}
			if ev.Pressed {
				e := k[ev.Pad]
				fmt.Printf("  pad %d  [%s] %-12s vel %d\n", ev.Pad, strings.ToUpper(e.Key), e.Name, ev.Velocity)
			}
		case ev, ok := <-notes:
			if !ok {
				notes = nil
				continue
			}
			pad := padForNote(k, ev.Note)
			if pad < 0 {
				fmt.Printf("  note %d  (unmapped)\n", ev.Note)
				continue
			}
			fmt.Printf("  note %d -> pad %d  [%s] %s\n", ev.Note, pad, strings.ToUpper(k[pad].Key), k[pad].Name)
		}
	}
}

func padForNote(k [machine.NumPads]machine.KitEntry, note uint8) int {
	for i, e := range k {
		if e.Note == note {
			return i
		}
	}
	return -1
}

func testLEDs() {
	var in drivers.In
	var out drivers.Out
	for _, p := range gomidi.GetInPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			in = p
			break
		}
	}
	for _, p := range gomidi.GetOutPorts() {
		name := strings.ToLower(p.String())
		if strings.Contains(name, "launchpad") && strings.Contains(name, "midi") {
			out = p
			break
		}
	}
	if out == nil {
		fmt.Println("No Launchpad found")
		return
	}

	lp, err := midi.NewLaunchpadController(out.String(), in, out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer lp.Close()

	th := theme.MustDefault()
	for pad := 0; pad < machine.NumPads; pad++ {
		style := machine.StyleOn
		if pad%2 == 1 {
			style = machine.StyleOff
		}
		lp.SetPadRGB(pad, th.PadRGB(true, style), midi.ChannelStatic)
		time.Sleep(150 * time.Millisecond)
		lp.SetPadRGB(pad, th.PadRGB(false, style), midi.ChannelStatic)
	}

	fmt.Println("Done!")
}
