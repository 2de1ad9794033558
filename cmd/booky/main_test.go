package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OL45804W", "/works/OL45804W"},
		{"works/OL45804W", "/works/OL45804W"},
		{"/works/OL45804W", "/works/OL45804W"},
		{" /books/OL1M ", "/books/OL1M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeKey(tt.in))
	}
}

func TestReadCommands_EmptyList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "booky.db")
	t.Setenv("BOOKY_CONFIG", "")

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", db, "read", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "No books yet.")

	out.Reset()
	cmd = rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--db", db, "read", "stats"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "📚 0 books  ⭐ 0  🌟 0  🧾 0 Avg. pages")
}

func TestReadRemove_Missing(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--driver", "memory", "read", "rm", "OL1W"})
	assert.Error(t, cmd.Execute())
}

func TestReadExport_Empty(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--driver", "memory", "read", "export"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "[]\n", out.String())
}

func newOpenLibrary(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search.json":
			if r.URL.Query().Get("q") != "key:/works/OL1W" {
				_, _ = w.Write([]byte(`{"numFound":0,"docs":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL1W","title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965,"number_of_pages_median":612,"cover_i":42,"ratings_average":4.25}]}`))
		case "/works/OL1W.json":
			_, _ = w.Write([]byte(`{"key":"/works/OL1W","title":"Dune","description":"Arrakis."}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestShowAndReadAdd_UseSearchRecord(t *testing.T) {
	srv := newOpenLibrary(t)
	t.Setenv("BOOKY_CONFIG", "")
	t.Setenv("OPENLIBRARY_BASE_URL", srv.URL)
	db := filepath.Join(t.TempDir(), "booky.db")

	out := execute(t, "--db", db, "show", "OL1W")
	assert.Contains(t, out, "1965 • 612 pages")
	assert.Contains(t, out, "Author: Frank Herbert")
	assert.Contains(t, out, "⭐ 4.3 Average rating")

	out = execute(t, "--db", db, "read", "add", "OL1W", "4")
	assert.Contains(t, out, "Added Dune (4 ⭐)")

	out = execute(t, "--db", db, "read", "stats")
	assert.Contains(t, out, "📚 1 books  ⭐ 4.3  🌟 4.0  🧾 612 Avg. pages")
}
