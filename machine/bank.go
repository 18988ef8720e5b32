package machine

import (
	"go-drumpad/debug"
)

// Handle is a reusable playback handle for one sample. The bank owns it for
// its whole lifetime; it is never recreated per play.
type Handle interface {
	Rewind() error       // seek to position zero
	SetVolume(v float64) // linear gain in [0,1]
	Play() error         // start from the current position, fire-and-forget
}

// Loader turns a sample source into a playback handle
type Loader interface {
	Load(source string) (Handle, error)
}

// Sample is one pad of the bank
type Sample struct {
	Index  int
	Name   string
	Source string
	Key    string
	Note   uint8

	handle Handle
}

// Bank holds the fixed set of samples and their handles
type Bank struct {
	samples [NumPads]Sample
}

// NewBank loads every kit entry once. A source that fails to load still gets
// a handle; it reports PlaybackUnavailable whenever it is played.
func NewBank(kit [NumPads]KitEntry, loader Loader) *Bank {
	b := &Bank{}
	for i, e := range kit {
		s := Sample{
			Index:  i,
			Name:   e.Name,
			Source: e.File,
			Key:    e.Key,
			Note:   e.Note,
		}

		h, err := loader.Load(e.File)
		if err != nil {
			debug.Error("bank", err)
			h = unavailable{err: Unavailable(e.File, err)}
		}
		s.handle = h
		b.samples[i] = s
	}
	return b
}

// Samples returns the samples in pad order
func (b *Bank) Samples() [NumPads]Sample {
	return b.samples
}

// Lookup returns the sample at index
func (b *Bank) Lookup(index int) (Sample, error) {
	if !ValidIndex(index) {
		return Sample{}, invalidIndex("bank lookup", index)
	}
	return b.samples[index], nil
}

// Handle returns the handle for index, nil when out of range
func (b *Bank) Handle(index int) Handle {
	if !ValidIndex(index) {
		return nil
	}
	return b.samples[index].handle
}

// unavailable stands in for a sample that could not be loaded
type unavailable struct {
	err error
}

func (u unavailable) Rewind() error     { return nil }
func (u unavailable) SetVolume(float64) {}
func (u unavailable) Play() error       { return u.err }
