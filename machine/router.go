package machine

// KeyListener receives raw key notifications
type KeyListener interface {
	KeyDown(key string)
	KeyUp(key string)
}

// KeySource is a process-wide key event source. Attach installs l and
// returns the func that removes it.
type KeySource interface {
	Attach(l KeyListener) (detach func())
}

// Router turns key presses into triggers, once per physical press.
// Held keys are tracked so auto-repeat key-downs are dropped.
type Router struct {
	keys    KeyMap
	trigger func(int)
	pressed map[string]int
	detach  func()
}

// NewRouter creates a stopped router
func NewRouter(keys KeyMap, trigger func(int)) *Router {
	return &Router{
		keys:    keys,
		trigger: trigger,
		pressed: make(map[string]int),
	}
}

// Start attaches to src. Calling Start on a running router does nothing.
func (r *Router) Start(src KeySource) {
	if r.detach != nil {
		return
	}
	r.detach = src.Attach(r)
}

// Stop detaches from the source and forgets held keys. Safe to call more
// than once; callers should defer it right after Start.
func (r *Router) Stop() {
	if r.detach == nil {
		return
	}
	detach := r.detach
	r.detach = nil
	clear(r.pressed)
	detach()
}

// Running reports whether the router is attached
func (r *Router) Running() bool {
	return r.detach != nil
}

// KeyDown triggers the bound pad on a fresh press
func (r *Router) KeyDown(raw string) {
	k := normalizeKey(raw)
	i, ok := r.keys.Lookup(k)
	if !ok {
		return
	}
	if _, held := r.pressed[k]; held {
		return
	}
	r.pressed[k] = i
	r.trigger(i)
}

// KeyUp releases a key whether or not it was held
func (r *Router) KeyUp(raw string) {
	delete(r.pressed, normalizeKey(raw))
}

// Held reports whether key is in the press set
func (r *Router) Held(raw string) bool {
	_, ok := r.pressed[normalizeKey(raw)]
	return ok
}

// KeyHub is a KeySource fed by the presentation shell
type KeyHub struct {
	listeners []hubEntry
	nextID    int
}

type hubEntry struct {
	id int
	l  KeyListener
}

// Attach adds a listener; the returned func removes it exactly once
func (h *KeyHub) Attach(l KeyListener) func() {
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, hubEntry{id: id, l: l})
	return func() {
		for i, e := range h.listeners {
			if e.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of attached listeners
func (h *KeyHub) Listeners() int {
	return len(h.listeners)
}

func (h *KeyHub) KeyDown(key string) {
	for _, e := range h.listeners {
		e.l.KeyDown(key)
	}
}

func (h *KeyHub) KeyUp(key string) {
	for _, e := range h.listeners {
		e.l.KeyUp(key)
	}
}
