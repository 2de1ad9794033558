package app

import (
	"booky/internal/catalog"
)

// State is everything the interface renders. It only changes through Reduce.
type State struct {
	Query         string
	Results       []catalog.Summary
	SearchLoading bool

	// SelectedKey is empty when nothing is selected.
	SelectedKey   string
	Detail        *catalog.Detail
	DetailLoading bool

	// Tokens of the latest lookups; responses carrying older tokens are stale.
	searchSeq uint64
	detailSeq uint64
}

func (s State) HasSelection() bool {
	return s.SelectedKey != ""
}

// SelectedSummary returns a copy of the search result matching the selection.
func (s State) SelectedSummary() *catalog.Summary {
	if sum := catalog.FindSummary(s.Results, s.SelectedKey); sum != nil {
		cp := *sum
		return &cp
	}
	return nil
}

type Action interface {
	isAction()
}

// QuerySubmitted starts a catalog lookup and drops any selection.
type QuerySubmitted struct {
	Query string
}

type SearchFinished struct {
	Seq     uint64
	Results []catalog.Summary
}

// Selected toggles: selecting the current key again clears the selection.
type Selected struct {
	Key string
}

type Closed struct{}

// DetailFinished carries a nil Detail when the lookup failed.
type DetailFinished struct {
	Seq    uint64
	Detail *catalog.Detail
}

func (QuerySubmitted) isAction() {}
func (SearchFinished) isAction() {}
func (Selected) isAction()       {}
func (Closed) isAction()         {}
func (DetailFinished) isAction() {}
