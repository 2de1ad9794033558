package shell

import (
	"fmt"
	"io"
	"strconv"

	"booky/internal/app"
	"booky/internal/catalog"
	"booky/internal/readinglist"
)

func RenderResults(w io.Writer, st app.State) {
	if st.SearchLoading {
		fmt.Fprintln(w, "Loading...")
		return
	}
	if len(st.Results) == 0 {
		fmt.Fprintln(w, "Found 0 Books 😥")
		return
	}
	fmt.Fprintf(w, "Found %d Books!\n", len(st.Results))
	for i, b := range st.Results {
		marker := " "
		if b.Key == st.SelectedKey {
			marker = ">"
		}
		year := "?"
		if b.PublishYear > 0 {
			year = strconv.Itoa(b.PublishYear)
		}
		fmt.Fprintf(w, "%s%2d. %s (📅 %s)\n", marker, i+1, b.Title, year)
	}
}

// RenderDetail draws the detail pane. rated is the stored entry when the
// book is already on the read list.
func RenderDetail(w io.Writer, st app.State, rated *readinglist.Entry) {
	if st.DetailLoading {
		fmt.Fprintln(w, "Loading...")
		return
	}
	if st.Detail == nil {
		fmt.Fprintf(w, "No details for %s\n", st.SelectedKey)
		return
	}

	d := st.Detail
	fmt.Fprintf(w, "== %s ==\n", d.Title)
	fmt.Fprintln(w, d.PagesLine())
	fmt.Fprintln(w, d.SubjectsLine())
	fmt.Fprintf(w, "⭐ %s Average rating\n", catalog.FormatRating(d.RatingsAverage))
	fmt.Fprintf(w, "Cover: %s\n", d.CoverURL)
	if rated != nil {
		fmt.Fprintf(w, "You rated this book %d ⭐\n", rated.UserRating)
	} else {
		fmt.Fprintln(w, "Rate it with: rate <1-5>")
	}
	fmt.Fprintln(w, d.DescriptionOr())
	fmt.Fprintln(w, d.AuthorLine())
}

func RenderSummary(w io.Writer, v readinglist.SummaryView) {
	fmt.Fprintln(w, "BOOKS YOU READ")
	fmt.Fprintf(w, "📚 %d books  ⭐ %s  🌟 %s  🧾 %s Avg. pages\n",
		v.Books, v.AvgRatingText, v.AvgUserRatingText, v.AvgPagesText)
}

func RenderReadList(w io.Writer, entries []readinglist.Entry) {
	for i, e := range entries {
		fmt.Fprintf(w, "%2d. %s  ⭐ %s  🌟 %s  🧾 %s pages\n",
			i+1, e.Title, e.RatingText(), e.UserRatingText(), e.PagesText())
	}
}
