package machine

// NumPads is the size of the pad grid (3x3)
const NumPads = 9

// KitEntry describes one pad of a kit
type KitEntry struct {
	Key  string // trigger key, single character
	Name string // instrument name shown in the display
	File string // audio resource, resolved by the Loader
	Note uint8  // General MIDI drum note for the MIDI echo
}

// DefaultKit is the Heater kit. Every pad has its own note so a MIDI
// keyboard reaches all nine. Pads are laid out row by row:
//
//	q w e
//	a s d
//	z x c
var DefaultKit = [NumPads]KitEntry{
	{Key: "q", Name: "Heater 1", File: "Heater-1.mp3", Note: 36},
	{Key: "w", Name: "Heater 2", File: "Heater-2.mp3", Note: 38},
	{Key: "e", Name: "Heater 3", File: "Heater-3.mp3", Note: 40},
	{Key: "a", Name: "Heater 4", File: "Heater-4_1.mp3", Note: 41},
	{Key: "s", Name: "Clap", File: "Heater-6.mp3", Note: 39},
	{Key: "d", Name: "Open HH", File: "Dsc_Oh.mp3", Note: 46},
	{Key: "z", Name: "Kick n' Hat", File: "Kick_n_Hat.mp3", Note: 44},
	{Key: "x", Name: "Kick", File: "RP4_KICK_1.mp3", Note: 35},
	{Key: "c", Name: "Closed HH", File: "Cev_H2.mp3", Note: 42},
}

// Keys returns the trigger keys of a kit in pad order
func Keys(kit [NumPads]KitEntry) [NumPads]string {
	var keys [NumPads]string
	for i, e := range kit {
		keys[i] = e.Key
	}
	return keys
}
