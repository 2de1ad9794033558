package catalog

import (
	"fmt"
	"math"
	"strings"
)

// FormatRating renders an optional average with one decimal, or N/A.
func FormatRating(avg *float64) string {
	if avg == nil || *avg == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", math.Floor(*avg*10+0.5)/10)
}

func (d Detail) SubjectsLine() string {
	if len(d.Subjects) == 0 {
		return "Subjects: N/A"
	}
	subjects := d.Subjects
	if len(subjects) > 3 {
		subjects = subjects[:3]
	}
	return strings.Join(subjects, ", ")
}

func (d Detail) AuthorLine() string {
	switch len(d.AuthorNames) {
	case 0:
		return "Author: N/A"
	case 1:
		return "Author: " + d.AuthorNames[0]
	default:
		return "Authors: " + strings.Join(d.AuthorNames, ", ")
	}
}

func (d Detail) DescriptionOr() string {
	if d.Description == "" {
		return "No Description"
	}
	return d.Description
}

// PagesLine is the "<year> • <pages> pages" header line.
func (s Summary) PagesLine() string {
	year := "?"
	if s.PublishYear > 0 {
		year = fmt.Sprint(s.PublishYear)
	}
	pages := "?"
	if s.PagesMedian != nil {
		pages = fmt.Sprint(*s.PagesMedian)
	}
	return fmt.Sprintf("%s • %s pages", year, pages)
}
