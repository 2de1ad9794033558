package catalog

import (
	"context"
	"regexp"
	"strconv"

	"booky/internal/platform/openlibrary"
)

// SearchLimit is the number of summaries requested per lookup.
const SearchLimit = 10

// Summary is one search hit. It is never persisted.
type Summary struct {
	Key            string   `json:"key"`
	Title          string   `json:"title"`
	AuthorNames    []string `json:"author_name,omitempty"`
	PublishYear    int      `json:"first_publish_year,omitempty"`
	PagesMedian    *int     `json:"number_of_pages_median,omitempty"`
	CoverID        int      `json:"cover_i,omitempty"`
	RatingsAverage *float64 `json:"ratings_average,omitempty"`
	CoverURL       string   `json:"cover_url"`
}

// Detail is a Summary enriched with the work record.
type Detail struct {
	Summary
	Description string   `json:"description,omitempty"`
	Subjects    []string `json:"subjects,omitempty"`
}

//go:generate mockgen -source=catalog.go -destination=mock_client.go -package=catalog

// Client is the subset of the Open Library client the catalog needs.
type Client interface {
	SearchBooks(ctx context.Context, query string, limit int) (*openlibrary.SearchResponse, error)
	GetWork(ctx context.Context, key string) (*openlibrary.Work, error)
	CoverURL(coverID int) string
}

func summaryFromDoc(doc openlibrary.SearchDoc) Summary {
	return Summary{
		Key:            doc.Key,
		Title:          doc.Title,
		AuthorNames:    doc.AuthorNames,
		PublishYear:    doc.FirstPublishYear,
		PagesMedian:    doc.NumberOfPagesMedian,
		CoverID:        doc.CoverID,
		RatingsAverage: doc.RatingsAverage,
	}
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// Merge lays the work record over the summary: work fields win where they
// are present, summary fields fill the gaps. The publish year is the
// exception and comes from the summary when it has one. A nil summary is
// allowed.
func Merge(summary *Summary, work *openlibrary.Work) Detail {
	var d Detail
	if summary != nil {
		d.Summary = *summary
	}
	if work == nil {
		return d
	}

	if work.Key != "" {
		d.Key = work.Key
	}
	if work.Title != "" {
		d.Title = work.Title
	}
	if id := work.CoverID(); id > 0 {
		d.CoverID = id
	}
	// The search record's first_publish_year is authoritative; the free-form
	// first_publish_date only fills in when it is missing.
	if d.PublishYear == 0 {
		if m := yearPattern.FindStringSubmatch(work.FirstPublishDate); m != nil {
			if year, err := strconv.Atoi(m[1]); err == nil {
				d.PublishYear = year
			}
		}
	}
	d.Description = work.DescriptionText()
	d.Subjects = work.Subjects
	return d
}

// KeyQuery is the search query that matches exactly the record with key.
func KeyQuery(key string) string {
	return "key:" + key
}

// FindSummary returns the first summary with the given key.
func FindSummary(list []Summary, key string) *Summary {
	for i := range list {
		if list[i].Key == key {
			return &list[i]
		}
	}
	return nil
}
