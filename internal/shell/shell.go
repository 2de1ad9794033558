package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"booky/internal/app"
	"booky/internal/readinglist"
)

const help = `commands:
  /<query>, search <query>  look up books
  <n>, open <n>             show (or hide) result n
  esc                       close the open book
  rate <1-5>                add the open book to your read list
  list                      show your read list
  rm <n>                    remove entry n from your read list
  quit                      leave`

var (
	errOpenUsage   = errors.New("open needs a result number")
	errRemoveUsage = errors.New("rm needs an entry number")
)

// Shell is a line-oriented interface over a Session.
type Shell struct {
	session *app.Session
	term    *Terminal
	out     io.Writer
	prompt  string
}

func New(session *app.Session, term *Terminal, out io.Writer) *Shell {
	return &Shell{session: session, term: term, out: out, prompt: "booky> "}
}

// Run reads commands from in until quit, EOF or ctx is done.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	defer sh.session.Shutdown()
	sh.renderMain()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, sh.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := sh.Exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs one command line and reports whether the shell should stop.
func (sh *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if strings.HasPrefix(line, "/") {
		sh.search(ctx, line[1:])
		return false, nil
	}
	if n, err := strconv.Atoi(line); err == nil {
		return false, sh.open(ctx, n)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case "search", "s":
		sh.search(ctx, arg)
	case "open", "o":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, errOpenUsage
		}
		return false, sh.open(ctx, n)
	case "esc", "back":
		if !sh.term.Press(app.KeyEscape) {
			fmt.Fprintln(sh.out, "Nothing open.")
			return false, nil
		}
		sh.renderMain()
	case "rate":
		stars, err := strconv.Atoi(arg)
		if err != nil {
			return false, app.ErrInvalidRating
		}
		return false, sh.rate(ctx, stars)
	case "rm", "remove":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return false, errRemoveUsage
		}
		e, err := sh.session.RemoveAt(ctx, n)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "Removed %s.\n", e.Title)
		sh.renderMain()
	case "list", "ls":
		sh.renderMain()
	case "help", "?":
		fmt.Fprintln(sh.out, help)
	case "quit", "exit", "q":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd)
	}
	return false, nil
}

func (sh *Shell) search(ctx context.Context, query string) {
	st := sh.session.Submit(ctx, query)
	RenderResults(sh.out, st)
}

func (sh *Shell) open(ctx context.Context, n int) error {
	st, err := sh.session.SelectResult(ctx, n)
	if err != nil {
		return err
	}
	if !st.HasSelection() {
		sh.renderMain()
		return nil
	}
	var rated *readinglist.Entry
	if e, ok := sh.session.Rated(); ok {
		rated = &e
	}
	RenderDetail(sh.out, st, rated)
	return nil
}

func (sh *Shell) rate(ctx context.Context, stars int) error {
	e, err := sh.session.Rate(ctx, stars)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Added %s to your read list.\n", e.Title)
	sh.renderMain()
	return nil
}

// renderMain draws what the second pane shows when no book is open.
func (sh *Shell) renderMain() {
	RenderSummary(sh.out, sh.session.Summary())
	RenderReadList(sh.out, sh.session.ReadList())
}
