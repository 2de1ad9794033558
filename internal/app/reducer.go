package app

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case QuerySubmitted:
		s = closeSelection(s)
		s.Query = a.Query
		s.searchSeq++
		s.SearchLoading = true

	case SearchFinished:
		if a.Seq != s.searchSeq {
			return s
		}
		s.Results = a.Results
		s.SearchLoading = false

	case Selected:
		if a.Key == "" || a.Key == s.SelectedKey {
			return closeSelection(s)
		}
		s.SelectedKey = a.Key
		s.Detail = nil
		s.detailSeq++
		s.DetailLoading = true

	case Closed:
		s = closeSelection(s)

	case DetailFinished:
		if a.Seq != s.detailSeq || !s.HasSelection() {
			return s
		}
		if a.Detail != nil {
			s.Detail = a.Detail
		}
		s.DetailLoading = false
	}
	return s
}

// closeSelection also bumps the detail token so a lookup still in flight
// for the old selection is ignored.
func closeSelection(s State) State {
	if !s.HasSelection() && !s.DetailLoading {
		return s
	}
	s.SelectedKey = ""
	s.Detail = nil
	s.DetailLoading = false
	s.detailSeq++
	return s
}
