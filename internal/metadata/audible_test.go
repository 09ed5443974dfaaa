// file: internal/metadata/audible_test.go
// version: 1.3.0
// guid: 4f1b8d36-9c2e-4a75-b803-6e5a9f2d7c18

package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAudibleClient(t *testing.T) {
	client, err := NewAudibleClient("us")
	if err != nil {
		t.Fatalf("NewAudibleClient failed: %v", err)
	}
	if client.baseURL != "https://api.audible.com/1.0/catalog/products" {
		t.Errorf("Expected US catalog URL, got %q", client.baseURL)
	}
	if client.httpClient == nil {
		t.Fatal("Expected non-nil HTTP client")
	}
}

func TestNewAudibleClientLocaleDomains(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"us", "https://api.audible.com/1.0/catalog/products"},
		{"gb", "https://api.audible.co.uk/1.0/catalog/products"},
		{"jp", "https://api.audible.co.jp/1.0/catalog/products"},
		{"de", "https://api.audible.de/1.0/catalog/products"},
		{"in", "https://api.audible.co.in/1.0/catalog/products"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			client, err := NewAudibleClient(tt.locale)
			if err != nil {
				t.Fatalf("NewAudibleClient(%q) failed: %v", tt.locale, err)
			}
			if client.baseURL != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, client.baseURL)
			}
		})
	}
}

func TestNewAudibleClientDefaultsLocale(t *testing.T) {
	client, err := NewAudibleClient("")
	if err != nil {
		t.Fatalf("NewAudibleClient failed: %v", err)
	}
	if client.locale != "us" {
		t.Errorf("Expected default locale us, got %q", client.locale)
	}
}

func TestNewAudibleClientRejectsUnsupportedLocale(t *testing.T) {
	for _, locale := range []string{"uk", "br", "xx"} {
		_, err := NewAudibleClient(locale)
		if err == nil {
			t.Errorf("Expected error for locale %q", locale)
			continue
		}
		var configErr *ConfigError
		if !errors.As(err, &configErr) {
			t.Errorf("Expected ConfigError for locale %q, got %T", locale, err)
			continue
		}
		if configErr.Source != SourceAudible || configErr.Locale != locale {
			t.Errorf("Expected ConfigError for audible/%s, got %v", locale, configErr)
		}
	}
}

func TestAudibleLanguages(t *testing.T) {
	client, err := NewAudibleClient("us")
	if err != nil {
		t.Fatalf("NewAudibleClient failed: %v", err)
	}

	langs := client.Languages()
	if langs.Default != "us" {
		t.Errorf("Expected default us, got %q", langs.Default)
	}
	if len(langs.Supported) != 10 {
		t.Errorf("Expected 10 supported locales, got %d", len(langs.Supported))
	}
	// Sorted, so the declared set is stable for API consumers.
	for i := 1; i < len(langs.Supported); i++ {
		if langs.Supported[i-1] >= langs.Supported[i] {
			t.Errorf("Expected sorted locales, got %v", langs.Supported)
			break
		}
	}
}

func TestAudibleSourceAndKind(t *testing.T) {
	client := NewAudibleClientWithBaseURL("http://example.com")
	if client.Source() != SourceAudible {
		t.Errorf("Expected source audible, got %q", client.Source())
	}
	if client.Kind() != KindAudioBook {
		t.Errorf("Expected kind audiobook, got %q", client.Kind())
	}
}

func TestAudibleSearchQuery(t *testing.T) {
	query := audibleSearchQuery("the wind-up bird chronicle", 1)

	if got := query.Get("title"); got != "the wind-up bird chronicle" {
		t.Errorf("Expected title param, got %q", got)
	}
	if got := query.Get("num_results"); got != "20" {
		t.Errorf("Expected num_results 20, got %q", got)
	}
	if got := query.Get("page"); got != "0" {
		t.Errorf("Expected 0-based page 0 for contract page 1, got %q", got)
	}
	if got := query.Get("products_sort_by"); got != "Relevance" {
		t.Errorf("Expected Relevance sort, got %q", got)
	}
	if got := query.Get("response_groups"); got != "contributors,category_ladders,media,product_attrs,product_extended_attrs" {
		t.Errorf("Unexpected response_groups %q", got)
	}
	if got := query.Get("image_sizes"); got != "2400" {
		t.Errorf("Expected image_sizes 2400, got %q", got)
	}
}

func TestAudibleSearchQueryPageShift(t *testing.T) {
	if got := audibleSearchQuery("q", 3).Get("page"); got != "2" {
		t.Errorf("Expected 0-based page 2 for contract page 3, got %q", got)
	}
	if got := audibleSearchQuery("q", 0).Get("page"); got != "0" {
		t.Errorf("Expected page 0 when contract page clamps to 1, got %q", got)
	}
}

const audibleSearchPayload = `{
	"total_results": 45,
	"products": [
		{
			"asin": "B017V4IM1G",
			"title": "Hard-Boiled Wonderland and the End of the World",
			"authors": [{"name": "Haruki Murakami"}],
			"narrators": [{"name": "Adam Sims"}],
			"product_images": {"2400": "https://m.media-amazon.com/images/I/hardboiled.jpg"},
			"release_date": "2015-08-04",
			"runtime_length_min": 615
		},
		{
			"asin": "B06XKB6B5W",
			"title": "Sputnik Sweetheart"
		}
	]
}`

func TestAudibleSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("page"); got != "0" {
			t.Errorf("Expected upstream page 0, got %q", got)
		}
		if got := query.Get("num_results"); got != "20" {
			t.Errorf("Expected num_results 20, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != UserAgent {
			t.Errorf("Expected User-Agent %q, got %q", UserAgent, got)
		}
		_, _ = w.Write([]byte(audibleSearchPayload))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	results, err := client.Search(context.Background(), "murakami", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if results.Total != 45 {
		t.Errorf("Expected total 45, got %d", results.Total)
	}
	if results.NextPage == nil || *results.NextPage != 2 {
		t.Errorf("Expected next page 2, got %v", results.NextPage)
	}
	if len(results.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(results.Items))
	}

	first := results.Items[0]
	if first.Identifier != "B017V4IM1G" {
		t.Errorf("Expected identifier B017V4IM1G, got %q", first.Identifier)
	}
	if first.Kind != KindAudioBook {
		t.Errorf("Expected kind audiobook, got %q", first.Kind)
	}
	if len(first.ImageURLs) != 1 || first.ImageURLs[0] != "https://m.media-amazon.com/images/I/hardboiled.jpg" {
		t.Errorf("Expected single cover URL, got %v", first.ImageURLs)
	}
	if first.PublishYear == nil || *first.PublishYear != 2015 {
		t.Errorf("Expected year 2015, got %v", first.PublishYear)
	}

	// The bare item degrades without error: no image, no year.
	second := results.Items[1]
	if len(second.ImageURLs) != 0 {
		t.Errorf("Expected no images for bare item, got %v", second.ImageURLs)
	}
	if second.PublishYear != nil {
		t.Errorf("Expected no year for bare item, got %d", *second.PublishYear)
	}
}

func TestAudibleSearchLastPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("Expected upstream page 1 for contract page 2, got %q", got)
		}
		_, _ = w.Write([]byte(`{"total_results": 40, "products": []}`))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	results, err := client.Search(context.Background(), "murakami", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results.NextPage != nil {
		t.Errorf("Expected nil next page when 40 results end at page 2, got %d", *results.NextPage)
	}
}

func TestAudibleSearchMissingASIN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_results": 1, "products": [{"title": "No Identifier"}]}`))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	_, err := client.Search(context.Background(), "broken", 1)
	if err == nil {
		t.Fatal("Expected error for item without identifier")
	}
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("Expected ErrMissingIdentifier in chain, got %v", err)
	}
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Errorf("Expected UpstreamError, got %T", err)
	}
}

func TestAudibleSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	_, err := client.Search(context.Background(), "murakami", 1)
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got %T", err)
	}
	if upstreamErr.Status != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", upstreamErr.Status)
	}
}

func TestAudibleSearchNetworkError(t *testing.T) {
	client := NewAudibleClientWithBaseURL("http://invalid.localhost:99999")

	_, err := client.Search(context.Background(), "murakami", 1)
	if err == nil {
		t.Error("Expected network error")
	}
}

func TestAudibleSearchInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	_, err := client.Search(context.Background(), "murakami", 1)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

const audibleDetailsPayload = `{
	"product": {
		"asin": "B017V4IM1G",
		"title": "Hard-Boiled Wonderland and the End of the World",
		"authors": [{"name": "Haruki Murakami"}, {"name": "Alfred Birnbaum"}],
		"narrators": [{"name": "Adam Sims"}, {"name": "Haruki Murakami"}],
		"product_images": {"2400": "https://m.media-amazon.com/images/I/hardboiled.jpg"},
		"merchandising_summary": "A short teaser.",
		"publisher_summary": "The long publisher synopsis.",
		"release_date": "2015-08-04",
		"runtime_length_min": 615,
		"category_ladders": [
			{"ladder": [{"name": "Fiction"}, {"name": "Literary Fiction"}]},
			{"ladder": [{"name": "Fiction"}, {"name": "Fantasy"}]}
		]
	}
}`

func TestAudibleDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/B017V4IM1G" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("response_groups"); got == "" {
			t.Error("Expected response_groups on details request")
		}
		_, _ = w.Write([]byte(audibleDetailsPayload))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	record, err := client.Details(context.Background(), "B017V4IM1G")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}

	if record.Identifier != "B017V4IM1G" {
		t.Errorf("Expected identifier B017V4IM1G, got %q", record.Identifier)
	}
	if record.Source != SourceAudible || record.Kind != KindAudioBook {
		t.Errorf("Expected audible/audiobook record, got %s/%s", record.Source, record.Kind)
	}

	// Authors first, then narrators. Murakami appears once per role.
	wantCreators := []Creator{
		{Name: "Haruki Murakami", Role: RoleAuthor},
		{Name: "Alfred Birnbaum", Role: RoleAuthor},
		{Name: "Adam Sims", Role: RoleNarrator},
		{Name: "Haruki Murakami", Role: RoleNarrator},
	}
	if len(record.Creators) != len(wantCreators) {
		t.Fatalf("Expected %d creators, got %d", len(wantCreators), len(record.Creators))
	}
	for i, want := range wantCreators {
		if record.Creators[i].Name != want.Name || record.Creators[i].Role != want.Role {
			t.Errorf("Creator %d: expected %s (%s), got %s (%s)",
				i, want.Name, want.Role, record.Creators[i].Name, record.Creators[i].Role)
		}
	}

	if record.Description == nil || *record.Description != "The long publisher synopsis." {
		t.Errorf("Expected publisher summary as description, got %v", record.Description)
	}

	// Ladders flatten and dedup: Fiction appears once.
	if len(record.Genres) != 3 {
		t.Fatalf("Expected 3 unique genres, got %d: %v", len(record.Genres), record.Genres)
	}
	seen := make(map[string]bool)
	for _, genre := range record.Genres {
		seen[genre] = true
	}
	for _, want := range []string{"Fiction", "Literary Fiction", "Fantasy"} {
		if !seen[want] {
			t.Errorf("Expected genre %q in %v", want, record.Genres)
		}
	}

	if record.PublishYear == nil || *record.PublishYear != 2015 {
		t.Errorf("Expected year 2015, got %v", record.PublishYear)
	}
	if record.PublishDate == nil || record.PublishDate.Format("2006-01-02") != "2015-08-04" {
		t.Errorf("Expected publish date 2015-08-04, got %v", record.PublishDate)
	}

	if len(record.Images) != 1 || record.Images[0].Location != ImageRemote {
		t.Fatalf("Expected single remote image, got %v", record.Images)
	}

	if err := record.Specifics.Validate(); err != nil {
		t.Errorf("Expected valid specifics, got %v", err)
	}
	if record.Specifics.AudioBook == nil || record.Specifics.AudioBook.RuntimeMinutes == nil ||
		*record.Specifics.AudioBook.RuntimeMinutes != 615 {
		t.Error("Expected audiobook runtime 615 minutes")
	}
}

func TestAudibleDetailsDescriptionFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"product": {"asin": "B0TEST", "title": "T", "merchandising_summary": "Only the teaser."}}`))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	record, err := client.Details(context.Background(), "B0TEST")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if record.Description == nil || *record.Description != "Only the teaser." {
		t.Errorf("Expected merchandising fallback, got %v", record.Description)
	}
}

func TestAudibleDetailsNoDescription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"product": {"asin": "B0TEST", "title": "T"}}`))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	record, err := client.Details(context.Background(), "B0TEST")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if record.Description != nil {
		t.Errorf("Expected nil description, got %q", *record.Description)
	}
	if record.Creators != nil {
		t.Errorf("Expected no creators, got %v", record.Creators)
	}
}

func TestAudibleSearchSecondPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("Expected upstream page 1 for contract page 2, got %q", got)
		}
		_, _ = w.Write([]byte(audibleSearchPayload))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	results, err := client.Search(context.Background(), "murakami", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if results.Total != 45 {
		t.Errorf("Expected total 45, got %d", results.Total)
	}
	if results.NextPage == nil || *results.NextPage != 3 {
		t.Errorf("Expected next page 3 with 5 results remaining, got %v", results.NextPage)
	}
	if len(results.Items) != 2 {
		t.Errorf("Expected the 2 available items, got %d", len(results.Items))
	}
}

func TestNormalizeAudibleItemDeterministic(t *testing.T) {
	runtime := 615
	item := &audibleItem{
		ASIN:             "B017V4IM1G",
		Title:            "Hard-Boiled Wonderland and the End of the World",
		Authors:          []audiblePerson{{Name: "Haruki Murakami"}},
		Narrators:        []audiblePerson{{Name: "Adam Sims"}},
		ProductImages:    &audibleImageSet{Full: "https://m.media-amazon.com/images/I/hardboiled.jpg"},
		PublisherSummary: "A dreamlike chase through two halves of one mind.",
		ReleaseDate:      "2015-08-04",
		RuntimeLengthMin: &runtime,
		CategoryLadders: []audibleLadder{
			{Ladder: []audibleLadderEntry{{Name: "Fiction"}, {Name: "Literary Fiction"}}},
			{Ladder: []audibleLadderEntry{{Name: "Fiction"}}},
		},
	}

	first, err := normalizeAudibleItem(item)
	if err != nil {
		t.Fatalf("normalizeAudibleItem failed: %v", err)
	}
	second, err := normalizeAudibleItem(item)
	if err != nil {
		t.Fatalf("normalizeAudibleItem failed on second pass: %v", err)
	}

	firstJSON, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	secondJSON, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Errorf("Expected identical records for repeated normalization:\n%s\n%s", firstJSON, secondJSON)
	}
}

func TestAudibleDetailsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	_, err := client.Details(context.Background(), "B000MISSING")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAudibleDetailsMissingASIN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"product": {"title": "No Identifier"}}`))
	}))
	defer server.Close()

	client := NewAudibleClientWithBaseURL(server.URL)

	_, err := client.Details(context.Background(), "B0TEST")
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("Expected ErrMissingIdentifier, got %v", err)
	}
}
