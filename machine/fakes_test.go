package machine

import (
	"errors"
	"time"
)

// fakeHandle models a playhead: Play records where it started and
// advances the position as if some audio was rendered.
type fakeHandle struct {
	pos     int
	volume  float64
	starts  []int
	volumes []float64
	rewinds int
	playErr error
}

func (h *fakeHandle) Rewind() error {
	h.rewinds++
	h.pos = 0
	return nil
}

func (h *fakeHandle) SetVolume(v float64) {
	h.volume = v
}

func (h *fakeHandle) Play() error {
	if h.playErr != nil {
		return h.playErr
	}
	h.starts = append(h.starts, h.pos)
	h.volumes = append(h.volumes, h.volume)
	h.pos += 512
	return nil
}

type fakeLoader struct {
	handles map[string]*fakeHandle
	fail    map[string]error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		handles: make(map[string]*fakeHandle),
		fail:    make(map[string]error),
	}
}

func (l *fakeLoader) Load(source string) (Handle, error) {
	if err := l.fail[source]; err != nil {
		return nil, err
	}
	h := &fakeHandle{}
	l.handles[source] = h
	return h, nil
}

// handle returns the fake behind pad i of the default kit
func (l *fakeLoader) handle(i int) *fakeHandle {
	return l.handles[DefaultKit[i].File]
}

type scheduled struct {
	d         time.Duration
	e         Expiry
	cancelled bool
}

// fakeScheduler records requests; tests fire them by hand
type fakeScheduler struct {
	calls []*scheduled
}

func (s *fakeScheduler) After(d time.Duration, e Expiry) func() {
	c := &scheduled{d: d, e: e}
	s.calls = append(s.calls, c)
	return func() { c.cancelled = true }
}

// live returns requests that were not cancelled
func (s *fakeScheduler) live() []*scheduled {
	var out []*scheduled
	for _, c := range s.calls {
		if !c.cancelled {
			out = append(out, c)
		}
	}
	return out
}

type fakeTarget struct {
	shows []bool
	style Style
}

func (t *fakeTarget) Show(active bool, style Style) {
	t.shows = append(t.shows, active)
	t.style = style
}

type noteEvent struct{ note, velocity uint8 }

type fakeSink struct {
	notes []noteEvent
}

func (s *fakeSink) Note(note, velocity uint8) {
	s.notes = append(s.notes, noteEvent{note, velocity})
}

var errDecode = errors.New("decode failed")

func newTestMachine(powered bool) (*Machine, *fakeLoader, *fakeScheduler) {
	loader := newFakeLoader()
	sched := &fakeScheduler{}
	m, err := New(Options{
		Kit:       DefaultKit,
		Loader:    loader,
		Scheduler: sched,
		Volume:    1,
		Powered:   powered,
	})
	if err != nil {
		panic(err)
	}
	return m, loader, sched
}
