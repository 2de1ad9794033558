package readinglist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// SlotName is the persisted slot holding the serialized read list.
const SlotName = "read"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidEntry = errors.New("invalid entry")
)

var validate = validator.New()

// Entry is a book the user has read and rated. JSON names match the
// browser storage format so existing exports load unchanged.
type Entry struct {
	Key            string   `json:"key" validate:"required"`
	Title          string   `json:"title"`
	Published      int      `json:"published,omitempty"`
	Pages          *int     `json:"pages,omitempty"`
	RatingsAverage *float64 `json:"ratingsAverage,omitempty"`
	UserRating     int      `json:"userRating" validate:"gte=1,lte=5"`
	CoverID        int      `json:"cover_i,omitempty"`
}

//go:generate mockgen -source=readinglist.go -destination=mock_slots.go -package=readinglist

// Slots persists the serialized list.
type Slots interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Store is the ordered read list. It is read from its slot once at Open and
// written through on every mutation.
type Store struct {
	slots Slots

	mu      sync.RWMutex
	entries []Entry
}

func Open(ctx context.Context, slots Slots) (*Store, error) {
	raw, err := slots.Load(ctx, SlotName)
	if err != nil {
		return nil, fmt.Errorf("load read list: %w", err)
	}

	var entries []Entry
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("decode read list: %w", err)
		}
	}
	return &Store{slots: slots, entries: entries}, nil
}

// Append adds e at the end. Keys are not deduplicated.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, e)
	return s.commit(ctx, next)
}

// Remove deletes the first entry with key; later duplicates stay.
func (s *Store) Remove(ctx context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return Entry{}, ErrNotFound
	}
	removed := s.entries[idx]

	next := make([]Entry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return Entry{}, err
	}
	return removed, nil
}

// All returns a copy of the list in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find returns the first entry with key.
func (s *Store) Find(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(key); idx >= 0 {
		return s.entries[idx], true
	}
	return Entry{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) indexOf(key string) int {
	for i := range s.entries {
		if s.entries[i].Key == key {
			return i
		}
	}
	return -1
}

// commit writes next to the slot and only then swaps it in; s.mu is held.
func (s *Store) commit(ctx context.Context, next []Entry) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode read list: %w", err)
	}
	if err := s.slots.Save(ctx, SlotName, raw); err != nil {
		return fmt.Errorf("save read list: %w", err)
	}
	s.entries = next
	return nil
}
