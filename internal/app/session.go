package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"booky/internal/catalog"
	"booky/internal/readinglist"
)

const DefaultAppName = "Booky"

var (
	ErrNothingSelected = errors.New("no book selected")
	ErrDetailNotLoaded = errors.New("book details not loaded")
	ErrAlreadyRated    = errors.New("book already rated")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNoSuchResult    = errors.New("no such result")
)

// Catalog is the lookup side of the session; *catalog.Service satisfies it.
type Catalog interface {
	Search(ctx context.Context, query string) []catalog.Summary
	Detail(ctx context.Context, key string, summary *catalog.Summary) (catalog.Detail, error)
}

// ReadList is the persisted side; *readinglist.Store satisfies it.
type ReadList interface {
	Append(ctx context.Context, e readinglist.Entry) error
	Remove(ctx context.Context, key string) (readinglist.Entry, error)
	All() []readinglist.Entry
	Find(key string) (readinglist.Entry, bool)
}

type Options struct {
	AppName     string
	Environment Environment
}

// Session owns the application state and runs the two lookups. Methods
// block until their lookup returns and are safe to call concurrently; a
// lookup overtaken by a newer one is dropped by the reducer.
type Session struct {
	catalog  Catalog
	readList ReadList
	env      Environment
	appName  string

	mu      sync.Mutex
	state   State
	view    *detailView
	nextSub int
	subs    map[int]func(State)
}

func NewSession(cat Catalog, readList ReadList, opts Options) *Session {
	if opts.AppName == "" {
		opts.AppName = DefaultAppName
	}
	if opts.Environment == nil {
		opts.Environment = nopEnvironment{}
	}
	return &Session{
		catalog:  cat,
		readList: readList,
		env:      opts.Environment,
		appName:  opts.AppName,
		subs:     make(map[int]func(State)),
	}
}

// Subscribe registers fn to receive every new state.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) dispatch(a Action) State {
	s.mu.Lock()
	next := Reduce(s.state, a)
	s.state = next
	s.syncView(next)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next
}

// syncView acquires and releases the environment bindings of the detail
// pane so they live exactly as long as a selection does. s.mu is held.
func (s *Session) syncView(st State) {
	if s.view != nil && s.view.key != st.SelectedKey {
		s.view.release(s.env, s.appName)
		s.view = nil
	}
	if !st.HasSelection() {
		return
	}
	if s.view == nil {
		s.view = &detailView{key: st.SelectedKey}
		s.view.unbindEscape = s.env.BindKey(KeyEscape, func() { s.Close() })
	}
	if st.Detail != nil && st.Detail.Title != "" && st.Detail.Title != s.view.title {
		s.view.title = st.Detail.Title
		s.env.SetTitle(st.Detail.Title)
	}
}

// Submit runs a catalog lookup for query. A blank query clears the results.
func (s *Session) Submit(ctx context.Context, query string) State {
	st := s.dispatch(QuerySubmitted{Query: query})
	results := s.catalog.Search(ctx, query)
	return s.dispatch(SearchFinished{Seq: st.searchSeq, Results: results})
}

// Select toggles the selection of key and loads its details when it becomes
// selected.
func (s *Session) Select(ctx context.Context, key string) State {
	st := s.dispatch(Selected{Key: key})
	if st.SelectedKey != key {
		return st
	}

	var detail *catalog.Detail
	if d, err := s.catalog.Detail(ctx, key, st.SelectedSummary()); err == nil {
		detail = &d
	}
	return s.dispatch(DetailFinished{Seq: st.detailSeq, Detail: detail})
}

// Lookup opens key even when it is not among the current results: it first
// searches for the key itself so the detail is merged over its search
// record. An already open key stays open.
func (s *Session) Lookup(ctx context.Context, key string) State {
	if catalog.FindSummary(s.Snapshot().Results, key) == nil {
		s.Submit(ctx, catalog.KeyQuery(key))
	}
	if st := s.Snapshot(); st.SelectedKey == key {
		return st
	}
	return s.Select(ctx, key)
}

// SelectResult selects the n-th (1-based) entry of the current results.
func (s *Session) SelectResult(ctx context.Context, n int) (State, error) {
	st := s.Snapshot()
	if n < 1 || n > len(st.Results) {
		return st, fmt.Errorf("%w: %d", ErrNoSuchResult, n)
	}
	return s.Select(ctx, st.Results[n-1].Key), nil
}

func (s *Session) Close() State {
	return s.dispatch(Closed{})
}

// Rated reports the stored rating of the selected book, if any.
func (s *Session) Rated() (readinglist.Entry, bool) {
	st := s.Snapshot()
	if !st.HasSelection() {
		return readinglist.Entry{}, false
	}
	return s.readList.Find(st.SelectedKey)
}

// Rate stores the selected book with the user's stars and closes it.
func (s *Session) Rate(ctx context.Context, stars int) (readinglist.Entry, error) {
	st := s.Snapshot()
	switch {
	case !st.HasSelection():
		return readinglist.Entry{}, ErrNothingSelected
	case st.Detail == nil:
		return readinglist.Entry{}, ErrDetailNotLoaded
	case stars < 1 || stars > 5:
		return readinglist.Entry{}, ErrInvalidRating
	}
	if _, ok := s.readList.Find(st.SelectedKey); ok {
		return readinglist.Entry{}, ErrAlreadyRated
	}

	d := st.Detail
	entry := readinglist.Entry{
		Key:            st.SelectedKey,
		Title:          d.Title,
		Published:      d.PublishYear,
		Pages:          d.PagesMedian,
		RatingsAverage: d.RatingsAverage,
		UserRating:     stars,
		CoverID:        d.CoverID,
	}
	if err := s.readList.Append(ctx, entry); err != nil {
		return readinglist.Entry{}, err
	}
	s.Close()
	return entry, nil
}

func (s *Session) Remove(ctx context.Context, key string) error {
	_, err := s.readList.Remove(ctx, key)
	return err
}

// RemoveAt removes the n-th (1-based) read list entry.
func (s *Session) RemoveAt(ctx context.Context, n int) (readinglist.Entry, error) {
	all := s.readList.All()
	if n < 1 || n > len(all) {
		return readinglist.Entry{}, fmt.Errorf("%w: %d", ErrNoSuchResult, n)
	}
	return s.readList.Remove(ctx, all[n-1].Key)
}

func (s *Session) ReadList() []readinglist.Entry {
	return s.readList.All()
}

// Summary is recomputed from the read list on every call.
func (s *Session) Summary() readinglist.SummaryView {
	return readinglist.Aggregate(s.readList.All()).View()
}

// Shutdown releases whatever the detail pane holds.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view != nil {
		s.view.release(s.env, s.appName)
		s.view = nil
	}
}
