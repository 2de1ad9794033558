package shell

import (
	"fmt"
	"io"
	"sync"

	"booky/internal/app"
)

// Terminal is the app.Environment of an ANSI terminal. The title is set
// with the OSC 0 sequence; keys are delivered through Press.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	keymap *app.Keymap
	title  string
}

var _ app.Environment = (*Terminal)(nil)

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, keymap: app.NewKeymap()}
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
	fmt.Fprintf(t.out, "\x1b]0;%s\x07", title)
}

func (t *Terminal) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}

func (t *Terminal) BindKey(key string, fn func()) func() {
	return t.keymap.Bind(key, fn)
}

// Press delivers key to its bound handlers and reports whether any ran.
func (t *Terminal) Press(key string) bool {
	return t.keymap.Press(key)
}
