package app

import "sync"

const KeyEscape = "Escape"

// Environment is the host the interface runs in. Implementations must not
// call back into the Session from SetTitle or BindKey.
type Environment interface {
	SetTitle(title string)
	BindKey(key string, fn func()) (unbind func())
}

type nopEnvironment struct{}

func (nopEnvironment) SetTitle(string) {}

func (nopEnvironment) BindKey(string, func()) func() { return func() {} }

// Keymap is a listener registry: several handlers may share a key and each
// Bind returns its own release func.
type Keymap struct {
	mu       sync.Mutex
	next     int
	handlers map[string]map[int]func()
}

func NewKeymap() *Keymap {
	return &Keymap{handlers: make(map[string]map[int]func())}
}

func (k *Keymap) Bind(key string, fn func()) func() {
	k.mu.Lock()
	defer k.mu.Unlock()

	id := k.next
	k.next++
	if k.handlers[key] == nil {
		k.handlers[key] = make(map[int]func())
	}
	k.handlers[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			defer k.mu.Unlock()
			delete(k.handlers[key], id)
		})
	}
}

// Press runs the handlers bound to key and reports whether any ran.
func (k *Keymap) Press(key string) bool {
	k.mu.Lock()
	fns := make([]func(), 0, len(k.handlers[key]))
	for _, fn := range k.handlers[key] {
		fns = append(fns, fn)
	}
	k.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns) > 0
}

// Bound reports how many handlers are registered for key.
func (k *Keymap) Bound(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.handlers[key])
}

// detailView holds what the open detail pane has acquired from the
// environment. release gives everything back.
type detailView struct {
	key          string
	title        string
	unbindEscape func()
}

func (v *detailView) release(env Environment, appName string) {
	if v.unbindEscape != nil {
		v.unbindEscape()
		v.unbindEscape = nil
	}
	if v.title != "" {
		env.SetTitle(appName)
		v.title = ""
	}
}
