package machine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
)

// KeyMap binds exactly one key character to each pad. Built once, read only.
type KeyMap struct {
	index map[string]int
	keys  [NumPads]string
}

// NewKeyMap builds the binding. Keys are lower-cased and must be single,
// distinct characters.
func NewKeyMap(keys [NumPads]string) (KeyMap, error) {
	km := KeyMap{index: make(map[string]int, NumPads)}
	for i, raw := range keys {
		k := normalizeKey(raw)
		if utf8.RuneCountInString(k) != 1 {
			return KeyMap{}, fault.Wrap(
				fault.New(fmt.Sprintf("pad %d: key %q is not a single character", i, raw)),
				ftag.With(ftag.InvalidArgument),
			)
		}
		if prev, dup := km.index[k]; dup {
			return KeyMap{}, fault.Wrap(
				fault.New(fmt.Sprintf("key %q bound to pads %d and %d", k, prev, i)),
				ftag.With(ftag.InvalidArgument),
			)
		}
		km.index[k] = i
		km.keys[i] = k
	}
	return km, nil
}

// Lookup returns the pad bound to raw, if any
func (km KeyMap) Lookup(raw string) (int, bool) {
	i, ok := km.index[normalizeKey(raw)]
	return i, ok
}

// Key returns the key bound to a pad ("" when out of range)
func (km KeyMap) Key(index int) string {
	if !ValidIndex(index) {
		return ""
	}
	return km.keys[index]
}

func normalizeKey(raw string) string {
	return strings.ToLower(raw)
}
