package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	Key        string `json:"key" validate:"required,olkey"`
	Title      string `json:"title" validate:"max=20"`
	UserRating int    `json:"userRating" validate:"gte=1,lte=5"`
}

func TestValidateStruct_Valid(t *testing.T) {
	details := ValidateStruct(testEntry{Key: "/works/OL45883W", Title: "Dune", UserRating: 5})
	assert.Empty(t, details)
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	details := ValidateStruct(testEntry{})
	require.Len(t, details, 2)

	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "key is required", fields["key"])
	assert.Equal(t, "userRating must be between 1 and 5", fields["userRating"])
}

func TestValidateStruct_OLKey(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		{"/works/OL45883W", true},
		{"/books/OL7353617M", true},
		{"OL45883W", false},
		{"/authors/OL1A", false},
		{"/works/OL1W/extra", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			details := ValidateStruct(testEntry{Key: tt.key, UserRating: 3})
			assert.Equal(t, tt.valid, len(details) == 0)
		})
	}
}

func TestValidateStruct_RatingBounds(t *testing.T) {
	assert.NotEmpty(t, ValidateStruct(testEntry{Key: "/works/OL1W", UserRating: 0}))
	assert.NotEmpty(t, ValidateStruct(testEntry{Key: "/works/OL1W", UserRating: 6}))
	assert.Empty(t, ValidateStruct(testEntry{Key: "/works/OL1W", UserRating: 1}))
}
