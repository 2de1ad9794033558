package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"booky/internal/catalog"
)

func TestReduce_SearchLifecycle(t *testing.T) {
	s := Reduce(State{}, QuerySubmitted{Query: "dune"})
	assert.True(t, s.SearchLoading)
	assert.Equal(t, "dune", s.Query)

	results := []catalog.Summary{{Key: "/works/OL1W", Title: "Dune"}}
	s = Reduce(s, SearchFinished{Seq: s.searchSeq, Results: results})
	assert.False(t, s.SearchLoading)
	assert.Equal(t, results, s.Results)
}

func TestReduce_StaleSearchDiscarded(t *testing.T) {
	s := Reduce(State{}, QuerySubmitted{Query: "dun"})
	first := s.searchSeq
	s = Reduce(s, QuerySubmitted{Query: "dune"})
	second := s.searchSeq

	s = Reduce(s, SearchFinished{Seq: second, Results: []catalog.Summary{{Key: "/works/OL1W"}}})
	s = Reduce(s, SearchFinished{Seq: first, Results: []catalog.Summary{{Key: "/works/OL9W"}}})

	assert.Len(t, s.Results, 1)
	assert.Equal(t, "/works/OL1W", s.Results[0].Key)
	assert.False(t, s.SearchLoading)
}

func TestReduce_SelectToggles(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	assert.Equal(t, "/works/OL1W", s.SelectedKey)
	assert.True(t, s.DetailLoading)

	s = Reduce(s, Selected{Key: "/works/OL1W"})
	assert.False(t, s.HasSelection())
	assert.False(t, s.DetailLoading)
	assert.Nil(t, s.Detail)
}

func TestReduce_SelectOtherReplaces(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	s = Reduce(s, DetailFinished{Seq: s.detailSeq, Detail: &catalog.Detail{Summary: catalog.Summary{Key: "/works/OL1W"}}})
	s = Reduce(s, Selected{Key: "/works/OL2W"})

	assert.Equal(t, "/works/OL2W", s.SelectedKey)
	assert.Nil(t, s.Detail)
	assert.True(t, s.DetailLoading)
}

func TestReduce_StaleDetailDiscarded(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	stale := s.detailSeq
	s = Reduce(s, Selected{Key: "/works/OL2W"})

	s = Reduce(s, DetailFinished{Seq: stale, Detail: &catalog.Detail{Summary: catalog.Summary{Key: "/works/OL1W"}}})
	assert.Nil(t, s.Detail)
	assert.True(t, s.DetailLoading)

	s = Reduce(s, DetailFinished{Seq: s.detailSeq, Detail: &catalog.Detail{Summary: catalog.Summary{Key: "/works/OL2W"}}})
	assert.Equal(t, "/works/OL2W", s.Detail.Key)
	assert.False(t, s.DetailLoading)
}

func TestReduce_DetailAfterCloseIgnored(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	seq := s.detailSeq
	s = Reduce(s, Closed{})
	s = Reduce(s, DetailFinished{Seq: seq, Detail: &catalog.Detail{}})

	assert.False(t, s.HasSelection())
	assert.Nil(t, s.Detail)
}

func TestReduce_FailedDetailClearsLoading(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	s = Reduce(s, DetailFinished{Seq: s.detailSeq})

	assert.Equal(t, "/works/OL1W", s.SelectedKey)
	assert.Nil(t, s.Detail)
	assert.False(t, s.DetailLoading)
}

func TestReduce_QueryClearsSelection(t *testing.T) {
	s := Reduce(State{}, Selected{Key: "/works/OL1W"})
	s = Reduce(s, QuerySubmitted{Query: "emma"})

	assert.False(t, s.HasSelection())
	assert.False(t, s.DetailLoading)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	in := State{Results: []catalog.Summary{{Key: "/works/OL1W"}}}
	_ = Reduce(in, Selected{Key: "/works/OL1W"})
	assert.False(t, in.HasSelection())
}
