package audio

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"go-drumpad/debug"
	"go-drumpad/machine"
)

const (
	// SampleRate is the output rate; samples are resampled on load
	SampleRate = beep.SampleRate(44100)

	bufferLatency = 30 * time.Millisecond
)

// Engine owns the speaker mixer and loads samples into voices
type Engine struct {
	dir    string
	sr     beep.SampleRate
	mixer  *beep.Mixer
	lock   sync.Locker
	ready  bool
	voices []*Voice
}

// NewEngine creates an engine resolving sources relative to dir
func NewEngine(dir string) *Engine {
	return &Engine{
		dir:   dir,
		sr:    SampleRate,
		mixer: &beep.Mixer{},
		lock:  &sync.Mutex{},
	}
}

// Init opens the audio device. On failure the engine stays unusable and
// every Load reports PlaybackUnavailable.
func (e *Engine) Init() error {
	if e.ready {
		return nil
	}
	if err := speaker.Init(e.sr, e.sr.N(bufferLatency)); err != nil {
		return machine.Unavailable("speaker", err)
	}
	e.lock = speakerLock{}
	speaker.Play(e.mixer)
	e.ready = true
	debug.Log("audio", "speaker ready at %d Hz", e.sr)
	return nil
}

// Close silences and releases the audio device
func (e *Engine) Close() {
	if !e.ready {
		return
	}
	speaker.Clear()
	speaker.Close()
	e.ready = false
}

// Load decodes source into a voice and adds it to the mixer
func (e *Engine) Load(source string) (machine.Handle, error) {
	if !e.ready {
		return nil, machine.Unavailable(source, nil)
	}

	buf, err := decodeFile(e.resolve(source), e.sr)
	if err != nil {
		return nil, machine.Unavailable(source, err)
	}

	v := newVoice(buf, e.lock)
	e.lock.Lock()
	e.mixer.Add(v)
	e.lock.Unlock()
	e.voices = append(e.voices, v)

	debug.Log("audio", "loaded %s (%d frames)", source, buf.Len())
	return v, nil
}

// Voices returns the number of voices in the mixer
func (e *Engine) Voices() int {
	return len(e.voices)
}

func (e *Engine) resolve(source string) string {
	if filepath.IsAbs(source) || e.dir == "" {
		return source
	}
	return filepath.Join(e.dir, source)
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }
