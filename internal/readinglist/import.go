package readinglist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeEntries reads a serialized read list, such as the value a browser
// kept under the "read" key.
func DecodeEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode read list: %w", err)
	}
	return entries, nil
}

// AppendAll adds entries in order with a single write. Nothing is stored if
// any entry is invalid.
func (s *Store) AppendAll(ctx context.Context, entries []Entry) error {
	if err := validateAll(entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, 0, len(s.entries)+len(entries))
	next = append(next, s.entries...)
	next = append(next, entries...)
	return s.commit(ctx, next)
}

// ReplaceAll swaps the whole list for entries with a single write. The
// current list is kept if any entry is invalid or the write fails.
func (s *Store) ReplaceAll(ctx context.Context, entries []Entry) error {
	if err := validateAll(entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Entry, len(entries))
	copy(next, entries)
	return s.commit(ctx, next)
}

func validateAll(entries []Entry) error {
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrInvalidEntry, i+1, err)
		}
	}
	return nil
}

// Export writes the list in the same format DecodeEntries reads.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.All())
}
