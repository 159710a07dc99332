package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpgate/mcpgate/internal/search"
)

const ddgPage = `<html><body>
<div class="result"><h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org%2Fa.pdf&rut=x">First <b>PDF</b></a></h2></div>
<div class="result"><h2><a class="result__a" href="https://example.org/page.html">Second</a></h2></div>
<div class="result"><a class="result__snippet" href="https://ignored.example">snippet</a></div>
<div class="result"><h2><a class="result__a" href="https://example.org/c.PDF">Third</a></h2></div>
</body></html>`

func TestDuckDuckGoSearch(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		query = r.FormValue("q")
		w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	d := search.NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL

	results, err := d.Search(context.Background(), "go concurrency filetype:pdf", 10)
	require.NoError(t, err)

	assert.Equal(t, "go concurrency filetype:pdf", query)
	require.Len(t, results, 3)
	assert.Equal(t, "https://example.org/a.pdf", results[0].URL)
	assert.Equal(t, "First PDF", results[0].Title)
	assert.Equal(t, "https://example.org/page.html", results[1].URL)
	assert.Equal(t, "https://example.org/c.PDF", results[2].URL)
}

func TestDuckDuckGoMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	d := search.NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL

	results, err := d.Search(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDuckDuckGoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := search.NewDuckDuckGo(srv.Client())
	d.Endpoint = srv.URL
	_, err := d.Search(context.Background(), "q", 10)
	assert.Error(t, err)
}

func TestOllamaWebSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/web_search", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "rust book filetype:pdf", body["query"])
		w.Write([]byte(`{"results":[{"title":"Book","url":"https://x.test/book.pdf","content":"..."}]}`))
	}))
	defer srv.Close()

	o := search.NewOllamaWebSearch(srv.URL+"/", "k", srv.Client())
	results, err := o.Search(context.Background(), "rust book filetype:pdf", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://x.test/book.pdf", results[0].URL)
}
