package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booky/internal/readinglist"
	"booky/internal/store"
)

const export = `[
  {"key":"/works/OL1W","title":"Dune","published":1965,"pages":612,"userRating":5},
  {"key":"/works/OL2W","title":"Emma","userRating":3}
]`

func TestSeed(t *testing.T) {
	ctx := context.Background()
	slots := store.NewSlotMemory()

	n, err := seed(ctx, slots, strings.NewReader(export), false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = seed(ctx, slots, strings.NewReader(export), false)
	require.NoError(t, err)
	rl, err := readinglist.Open(ctx, slots)
	require.NoError(t, err)
	assert.Equal(t, 4, rl.Len())

	_, err = seed(ctx, slots, strings.NewReader(export), true)
	require.NoError(t, err)
	rl, err = readinglist.Open(ctx, slots)
	require.NoError(t, err)
	assert.Equal(t, 2, rl.Len())
}

func TestSeed_RejectsInvalid(t *testing.T) {
	_, err := seed(context.Background(), store.NewSlotMemory(), strings.NewReader(`[{"key":"","userRating":9}]`), false)
	assert.ErrorIs(t, err, readinglist.ErrInvalidEntry)
}

func TestSeed_FailedReplaceKeepsList(t *testing.T) {
	ctx := context.Background()
	slots := store.NewSlotMemory()
	_, err := seed(ctx, slots, strings.NewReader(export), false)
	require.NoError(t, err)

	_, err = seed(ctx, slots, strings.NewReader(`[{"key":"/works/OL9W","userRating":9}]`), true)
	assert.ErrorIs(t, err, readinglist.ErrInvalidEntry)

	rl, err := readinglist.Open(ctx, slots)
	require.NoError(t, err)
	require.Equal(t, 2, rl.Len())
	assert.Equal(t, "Dune", rl.All()[0].Title)
}
