package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Voice is the single playback handle of one sample. It sits in the mixer
// for its whole life and renders silence while idle, so a retrigger only
// has to seek back to zero.
type Voice struct {
	lock    sync.Locker // speaker lock; guards everything below
	buf     *beep.Buffer
	src     beep.StreamSeeker
	gain    *effects.Gain
	playing bool
}

func newVoice(buf *beep.Buffer, lock sync.Locker) *Voice {
	src := buf.Streamer(0, buf.Len())
	return &Voice{
		lock: lock,
		buf:  buf,
		src:  src,
		gain: &effects.Gain{Streamer: src, Gain: 0},
	}
}

// Rewind stops the voice and seeks to the first frame
func (v *Voice) Rewind() error {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.playing = false
	return v.src.Seek(0)
}

// SetVolume sets a linear gain; effects.Gain scales by 1+Gain
func (v *Voice) SetVolume(vol float64) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.gain.Gain = vol - 1
}

// Play starts rendering from the current position
func (v *Voice) Play() error {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.playing = true
	return nil
}

// Playing reports whether the voice is still rendering
func (v *Voice) Playing() bool {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.playing
}

// Position returns the current frame
func (v *Voice) Position() int {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.src.Position()
}

// Stream is called by the mixer with the speaker lock held. It never
// reports exhaustion so the mixer keeps the voice.
func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	if !v.playing {
		clear(samples)
		return len(samples), true
	}
	n, ok = v.gain.Stream(samples)
	if !ok || n < len(samples) {
		v.playing = false
		clear(samples[n:])
	}
	return len(samples), true
}
