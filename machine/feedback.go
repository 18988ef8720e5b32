package machine

import (
	"sync"
	"time"

	"go-drumpad/debug"
)

// DefaultPulse is how long a pad stays lit after a trigger
const DefaultPulse = 100 * time.Millisecond

// Style selects how an active pad is drawn
type Style int

const (
	StyleOn  Style = iota // powered trigger
	StyleOff              // trigger while unpowered
)

func (s Style) String() string {
	if s == StyleOff {
		return "off"
	}
	return "on"
}

// Target is a visual pad supplied by the presentation layer (terminal cell,
// Launchpad LED). Addressed only by pad index.
type Target interface {
	Show(active bool, style Style)
}

// Expiry is a pending clear for one pulse. Token identifies the pulse that
// scheduled it; a newer pulse on the same pad makes it stale.
type Expiry struct {
	Pad   int
	Token uint64
}

// Scheduler delivers e back to the event loop after d. The returned func
// cancels delivery if it has not happened yet.
type Scheduler interface {
	After(d time.Duration, e Expiry) (cancel func())
}

type pulse struct {
	active bool
	style  Style
	token  uint64
	cancel func()
}

// Feedback drives the transient active state of each pad
type Feedback struct {
	window  time.Duration
	sched   Scheduler
	pads    [NumPads]pulse
	targets [NumPads]Target
	tokens  uint64
}

// NewFeedback creates a coordinator; window <= 0 selects DefaultPulse
func NewFeedback(window time.Duration, sched Scheduler) *Feedback {
	if window <= 0 {
		window = DefaultPulse
	}
	return &Feedback{window: window, sched: sched}
}

// Window returns the pulse duration
func (f *Feedback) Window() time.Duration {
	return f.window
}

// Mount attaches visual targets and shows the current state on them.
// Nil entries are skipped.
func (f *Feedback) Mount(targets [NumPads]Target) {
	f.targets = targets
	for i := range f.pads {
		f.show(i)
	}
}

// Unmount detaches all targets
func (f *Feedback) Unmount() {
	f.targets = [NumPads]Target{}
}

// Pulse lights pad i for one window. A pulse on an already lit pad restarts
// the window: the earlier clear is cancelled and its token retired.
func (f *Feedback) Pulse(i int, style Style) {
	if !ValidIndex(i) {
		debug.Error("feedback", invalidIndex("pulse", i))
		return
	}

	p := &f.pads[i]
	if p.cancel != nil {
		p.cancel()
	}

	f.tokens++
	p.active = true
	p.style = style
	p.token = f.tokens
	p.cancel = f.sched.After(f.window, Expiry{Pad: i, Token: p.token})
	f.show(i)
}

// Expire applies a delivered clear. Stale expiries are ignored; it reports
// whether the pad was cleared.
func (f *Feedback) Expire(e Expiry) bool {
	if !ValidIndex(e.Pad) {
		return false
	}
	p := &f.pads[e.Pad]
	if !p.active || p.token != e.Token {
		return false
	}
	p.active = false
	p.cancel = nil
	f.show(e.Pad)
	return true
}

// Active reports whether pad i is currently lit
func (f *Feedback) Active(i int) bool {
	if !ValidIndex(i) {
		return false
	}
	return f.pads[i].active
}

// Style returns the style of the last pulse on pad i
func (f *Feedback) Style(i int) Style {
	if !ValidIndex(i) {
		return StyleOn
	}
	return f.pads[i].style
}

// Reset cancels every pending clear and darkens all pads
func (f *Feedback) Reset() {
	for i := range f.pads {
		p := &f.pads[i]
		if p.cancel != nil {
			p.cancel()
		}
		p.active = false
		p.cancel = nil
		f.show(i)
	}
}

func (f *Feedback) show(i int) {
	if t := f.targets[i]; t != nil {
		t.Show(f.pads[i].active, f.pads[i].style)
	}
}

// TimerScheduler runs clears on time.AfterFunc and hands them to the event
// loop through Expiries. Timers never touch Feedback themselves.
type TimerScheduler struct {
	out  chan Expiry
	done chan struct{}
	once sync.Once
}

// NewTimerScheduler creates a scheduler with a buffered delivery channel
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{
		out:  make(chan Expiry, NumPads*2),
		done: make(chan struct{}),
	}
}

func (s *TimerScheduler) After(d time.Duration, e Expiry) func() {
	t := time.AfterFunc(d, func() {
		select {
		case s.out <- e:
		case <-s.done:
		}
	})
	return func() { t.Stop() }
}

// Expiries delivers clears in firing order
func (s *TimerScheduler) Expiries() <-chan Expiry {
	return s.out
}

// Close releases timers blocked on delivery
func (s *TimerScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}
