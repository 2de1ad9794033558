package readinglist

import (
	"math"
	"strconv"
)

// Summary holds the raw means over a read list. A mean is NaN when the
// list is empty or when any entry lacks the averaged value, since every
// mean divides by the full count.
type Summary struct {
	Books         int
	AvgRating     float64
	AvgUserRating float64
	AvgPages      float64
}

func Aggregate(entries []Entry) Summary {
	n := float64(len(entries))
	var rating, userRating, pages float64
	for _, e := range entries {
		if e.RatingsAverage != nil {
			rating += *e.RatingsAverage
		} else {
			rating = math.NaN()
		}
		if e.Pages != nil {
			pages += float64(*e.Pages)
		} else {
			pages = math.NaN()
		}
		userRating += float64(e.UserRating)
	}
	return Summary{
		Books:         len(entries),
		AvgRating:     rating / n,
		AvgUserRating: userRating / n,
		AvgPages:      pages / n,
	}
}

// SummaryView is Summary made safe for display and JSON: unusable means
// collapse to 0.
type SummaryView struct {
	Books             int     `json:"books"`
	AvgRating         float64 `json:"avg_rating"`
	AvgUserRating     float64 `json:"avg_user_rating"`
	AvgPages          int     `json:"avg_pages"`
	AvgRatingText     string  `json:"avg_rating_text"`
	AvgUserRatingText string  `json:"avg_user_rating_text"`
	AvgPagesText      string  `json:"avg_pages_text"`
}

func (s Summary) View() SummaryView {
	v := SummaryView{Books: s.Books}
	v.AvgRating, v.AvgRatingText = tenths(s.AvgRating)
	v.AvgUserRating, v.AvgUserRatingText = tenths(s.AvgUserRating)
	if usable(s.AvgPages) {
		v.AvgPages = int(roundHalfUp(s.AvgPages))
	}
	v.AvgPagesText = strconv.Itoa(v.AvgPages)
	return v
}

func usable(x float64) bool {
	return x != 0 && !math.IsNaN(x) && !math.IsInf(x, 0)
}

func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func tenths(x float64) (float64, string) {
	if !usable(x) {
		return 0, "0"
	}
	r := roundHalfUp(x*10) / 10
	return r, ToFixed1(r)
}

// ToFixed1 formats with exactly one decimal, rounding half up.
func ToFixed1(x float64) string {
	return strconv.FormatFloat(roundHalfUp(x*10)/10, 'f', 1, 64)
}

func (e Entry) RatingText() string {
	if e.RatingsAverage == nil || *e.RatingsAverage == 0 {
		return "N/A"
	}
	return ToFixed1(*e.RatingsAverage)
}

func (e Entry) UserRatingText() string {
	return ToFixed1(float64(e.UserRating))
}

func (e Entry) PagesText() string {
	if e.Pages == nil || *e.Pages == 0 {
		return "N/A"
	}
	return strconv.Itoa(*e.Pages)
}
