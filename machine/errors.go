package machine

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Error kinds. None of them reach the user; they are logged and dropped.
const (
	InvalidIndex        ftag.Kind = "INVALID_INDEX"
	PlaybackUnavailable ftag.Kind = "PLAYBACK_UNAVAILABLE"
	InvalidVolume       ftag.Kind = "INVALID_VOLUME"
)

func invalidIndex(op string, index int) error {
	return fault.Wrap(
		fault.New(fmt.Sprintf("pad index %d out of range [0,%d)", index, NumPads)),
		fmsg.With(op),
		ftag.With(InvalidIndex),
	)
}

// Unavailable tags err as a playback failure for the given source.
func Unavailable(source string, err error) error {
	if err == nil {
		err = fault.New("no audio output")
	}
	return fault.Wrap(err,
		fmsg.With(fmt.Sprintf("sample %q", source)),
		ftag.With(PlaybackUnavailable),
	)
}

// ValidIndex reports whether i addresses a pad
func ValidIndex(i int) bool {
	return i >= 0 && i < NumPads
}
