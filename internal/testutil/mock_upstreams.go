// file: internal/testutil/mock_upstreams.go
// version: 2.0.0
// guid: c3d4e5f6-a7b8-9012-cdef-345678901abc

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// MockUpstreamServer creates an httptest.Server that mimics a provider API.
// The responses map keys are matched against the request URL using Contains.
func MockUpstreamServer(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for pattern, body := range responses {
			if strings.Contains(r.URL.String(), pattern) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	}))
}

// AudibleHobbitSearchResponse is a standard catalog search response for "The Hobbit".
const AudibleHobbitSearchResponse = `{
	"total_results": 1,
	"products": [{
		"asin": "B0099RKRTO",
		"title": "The Hobbit",
		"authors": [{"name": "J.R.R. Tolkien"}],
		"narrators": [{"name": "Rob Inglis"}],
		"release_date": "2012-09-18",
		"runtime_length_min": 663,
		"product_images": {"2400": "https://m.media-amazon.com/images/I/hobbit2400.jpg"},
		"category_ladders": [{"ladder": [{"name": "Science Fiction & Fantasy"}, {"name": "Fantasy"}]}]
	}]
}`

// AudibleHobbitProductResponse is the catalog product payload for "The Hobbit".
const AudibleHobbitProductResponse = `{
	"product": {
		"asin": "B0099RKRTO",
		"title": "The Hobbit",
		"authors": [{"name": "J.R.R. Tolkien"}],
		"narrators": [{"name": "Rob Inglis"}],
		"publisher_summary": "Bilbo Baggins is a hobbit who enjoys a comfortable life.",
		"merchandising_summary": "The enchanting prelude to The Lord of the Rings.",
		"release_date": "2012-09-18",
		"runtime_length_min": 663,
		"product_images": {"2400": "https://m.media-amazon.com/images/I/hobbit2400.jpg"},
		"category_ladders": [{"ladder": [{"name": "Science Fiction & Fantasy"}, {"name": "Fantasy"}]}]
	}
}`

// AudibleEmptySearchResponse returns no results.
const AudibleEmptySearchResponse = `{"total_results":0,"products":[]}`

// OpenLibraryHobbitSearchResponse is a standard search response for "The Hobbit".
const OpenLibraryHobbitSearchResponse = `{
	"numFound": 1,
	"start": 0,
	"docs": [{
		"key": "/works/OL262758W",
		"title": "The Hobbit",
		"cover_i": 6549700,
		"first_publish_year": 1937
	}]
}`

// OpenLibraryHobbitWorkResponse is the work record for "The Hobbit".
const OpenLibraryHobbitWorkResponse = `{
	"key": "/works/OL262758W",
	"title": "The Hobbit",
	"description": {"type": "/type/text", "value": "Bilbo Baggins, a respectable hobbit, is whisked away on an unexpected journey."},
	"covers": [6549700],
	"subjects": ["Fantasy fiction", "Dragons"],
	"authors": [{"author": {"key": "/authors/OL26320A"}}],
	"first_publish_date": "1937-09-21"
}`

// OpenLibraryTolkienAuthorResponse is the author record for J.R.R. Tolkien.
const OpenLibraryTolkienAuthorResponse = `{
	"name": "J.R.R. Tolkien",
	"photos": [6791768]
}`

// OpenLibraryEmptyResponse returns no results.
const OpenLibraryEmptyResponse = `{"numFound":0,"start":0,"docs":[]}`

// TMDBMatrixSearchResponse is a standard movie search response for "The Matrix".
const TMDBMatrixSearchResponse = `{
	"page": 1,
	"total_results": 1,
	"results": [{
		"id": 603,
		"title": "The Matrix",
		"poster_path": "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
		"release_date": "1999-03-30"
	}]
}`

// TMDBMatrixMovieResponse is the movie record for "The Matrix".
const TMDBMatrixMovieResponse = `{
	"id": 603,
	"title": "The Matrix",
	"overview": "Set in the 22nd century, The Matrix tells the story of a computer hacker.",
	"tagline": "Welcome to the Real World.",
	"poster_path": "/f89U3ADr1oiB1s9GkdPOEpXUk5H.jpg",
	"release_date": "1999-03-30",
	"runtime": 136,
	"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
}`

// TMDBEmptySearchResponse returns no results.
const TMDBEmptySearchResponse = `{"page":1,"total_results":0,"results":[]}`
