package catalog

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
)

// ErrLookupFailed collapses network and parse failures of a detail lookup.
var ErrLookupFailed = errors.New("lookup failed")

type Service struct {
	client Client

	mu     sync.RWMutex
	recent []Summary
}

func NewService(client Client) *Service {
	return &Service{client: client}
}

// Search looks up summaries for a free-text query. Blank queries and
// failed lookups both yield an empty list; failures are only logged.
func (s *Service) Search(ctx context.Context, query string) []Summary {
	if strings.TrimSpace(query) == "" {
		s.remember(nil)
		return []Summary{}
	}

	res, err := s.client.SearchBooks(ctx, query, SearchLimit)
	if err != nil {
		log.Printf("catalog search failed query=%q error=%v", query, err)
		return []Summary{}
	}

	seen := make(map[string]bool, len(res.Docs))
	out := make([]Summary, 0, len(res.Docs))
	for _, doc := range res.Docs {
		if len(out) == SearchLimit {
			break
		}
		if doc.Key == "" || seen[doc.Key] {
			continue
		}
		seen[doc.Key] = true
		sum := summaryFromDoc(doc)
		sum.CoverURL = s.client.CoverURL(sum.CoverID)
		out = append(out, sum)
	}
	s.remember(out)
	return out
}

// Detail fetches the work for key and merges it over summary.
func (s *Service) Detail(ctx context.Context, key string, summary *Summary) (Detail, error) {
	work, err := s.client.GetWork(ctx, key)
	if err != nil {
		log.Printf("catalog detail failed key=%q error=%v", key, err)
		return Detail{}, ErrLookupFailed
	}
	d := Merge(summary, work)
	if d.Key == "" {
		d.Key = key
	}
	d.CoverURL = s.client.CoverURL(d.CoverID)
	return d, nil
}

// Recent returns the summary with key from the last successful search.
func (s *Service) Recent(key string) *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sum := FindSummary(s.recent, key); sum != nil {
		cp := *sum
		return &cp
	}
	return nil
}

func (s *Service) CoverURL(coverID int) string {
	return s.client.CoverURL(coverID)
}

func (s *Service) remember(list []Summary) {
	s.mu.Lock()
	s.recent = list
	s.mu.Unlock()
}
