// file: internal/metadata/tmdb.go
// version: 1.2.0
// guid: f2a8d5e1-6c3b-4f79-a042-9e8b1d5c7a36

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// tmdbImageBase resolves the relative poster paths TMDB returns. Full-size
// originals are requested; consumers downscale as they see fit.
const tmdbImageBase = "https://image.tmdb.org/t/p/original"

const tmdbDefaultLanguage = "en"

// tmdbLanguages is the set of language codes the client accepts for the
// language query parameter. TMDB itself accepts more; these are the ones the
// catalog integration is known to render sensibly.
var tmdbLanguages = []string{"de", "en", "es", "fr", "it", "ja", "ko", "pt", "ru", "zh"}

// TMDBClient fetches movie metadata from The Movie Database API. Unlike the
// marketplace providers there is one endpoint worldwide; the locale choice
// becomes a language query parameter instead.
type TMDBClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
}

var _ Provider = (*TMDBClient)(nil)

// NewTMDBClient creates a TMDB API client. The API key is a required
// configuration value; the language defaults to English and is validated
// against the supported set.
func NewTMDBClient(apiKey, language string) (*TMDBClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}
	if language == "" {
		language = tmdbDefaultLanguage
	}
	if !tmdbLanguageSupported(language) {
		return nil, &ConfigError{Source: SourceTMDB, Locale: language}
	}
	client := NewTMDBClientWithBaseURL("https://api.themoviedb.org/3", apiKey)
	client.language = language
	return client, nil
}

// NewTMDBClientWithBaseURL creates a client with a custom base URL (for testing).
func NewTMDBClientWithBaseURL(baseURL, apiKey string) *TMDBClient {
	return &TMDBClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		language:   tmdbDefaultLanguage,
	}
}

func tmdbLanguageSupported(language string) bool {
	for _, code := range tmdbLanguages {
		if code == language {
			return true
		}
	}
	return false
}

// Source identifies this provider.
func (c *TMDBClient) Source() SourceKind {
	return SourceTMDB
}

// Kind reports the media class this provider serves.
func (c *TMDBClient) Kind() MediaKind {
	return KindMovie
}

// Languages lists the accepted language codes.
func (c *TMDBClient) Languages() LanguageSupport {
	supported := make([]string, len(tmdbLanguages))
	copy(supported, tmdbLanguages)
	return LanguageSupport{Supported: supported, Default: tmdbDefaultLanguage}
}

// tmdbBaseQuery returns the parameters present on every request: the API key
// and the configured result language.
func (c *TMDBClient) tmdbBaseQuery() url.Values {
	return url.Values{
		"api_key":  {c.apiKey},
		"language": {c.language},
	}
}

// tmdbSearchQuery builds the parameter set for a movie title search. TMDB
// pages are already 1-based and sized at twenty items, so the contract page
// passes through unchanged.
func (c *TMDBClient) tmdbSearchQuery(title string, page int) url.Values {
	if page < 1 {
		page = 1
	}
	query := c.tmdbBaseQuery()
	query.Set("query", title)
	query.Set("page", strconv.Itoa(page))
	query.Set("include_adult", "false")
	return query
}

type tmdbSearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
}

type tmdbSearchResponse struct {
	Page         int                `json:"page"`
	TotalResults int                `json:"total_results"`
	Results      []tmdbSearchResult `json:"results"`
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbMovie struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Overview    string      `json:"overview"`
	Tagline     string      `json:"tagline"`
	PosterPath  string      `json:"poster_path"`
	ReleaseDate string      `json:"release_date"`
	Runtime     int         `json:"runtime"`
	Genres      []tmdbGenre `json:"genres"`
}

func tmdbPosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return tmdbImageBase + posterPath
}

// Search runs a movie title search. TMDB serves fixed pages of twenty, which
// matches the contract page size, so its native pagination maps one to one.
func (c *TMDBClient) Search(ctx context.Context, query string, page int) (*SearchResults, error) {
	if page < 1 {
		page = 1
	}

	searchURL := fmt.Sprintf("%s/search/movie?%s", c.baseURL, c.tmdbSearchQuery(query, page).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "search", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "search", Err: fmt.Errorf("failed to search TMDB: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "search", Status: resp.StatusCode}
	}

	var payload tmdbSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "search", Err: fmt.Errorf("failed to decode search response: %w", err)}
	}

	items := make([]SearchResultItem, 0, len(payload.Results))
	for _, result := range payload.Results {
		if result.ID == 0 {
			return nil, &UpstreamError{Source: SourceTMDB, Op: "search", Err: ErrMissingIdentifier}
		}
		item := SearchResultItem{
			Identifier:  strconv.Itoa(result.ID),
			Kind:        KindMovie,
			Title:       result.Title,
			PublishYear: yearFromRawDate(result.ReleaseDate),
		}
		if poster := tmdbPosterURL(result.PosterPath); poster != "" {
			item.ImageURLs = []string{poster}
		}
		items = append(items, item)
	}

	log.Printf("[DEBUG] TMDB search %q page %d: %d of %d results", query, page, len(items), payload.TotalResults)
	return NewSearchResults(payload.TotalResults, items, page), nil
}

// Details fetches the full record for a TMDB movie ID. TMDB returns no
// contributor lists on the movie resource, so the creator list stays empty.
func (c *TMDBClient) Details(ctx context.Context, identifier string) (*MediaRecord, error) {
	detailsURL := fmt.Sprintf("%s/movie/%s?%s", c.baseURL, url.PathEscape(identifier), c.tmdbBaseQuery().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "details", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "details", Err: fmt.Errorf("failed to fetch TMDB movie: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "details", Status: resp.StatusCode}
	}

	var movie tmdbMovie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "details", Err: fmt.Errorf("failed to decode movie response: %w", err)}
	}

	if movie.ID == 0 {
		return nil, &UpstreamError{Source: SourceTMDB, Op: "details", Err: ErrMissingIdentifier}
	}

	var runtime *int
	if movie.Runtime > 0 {
		runtime = intPtr(movie.Runtime)
	}

	record := &MediaRecord{
		Identifier:  strconv.Itoa(movie.ID),
		Source:      SourceTMDB,
		Kind:        KindMovie,
		Title:       movie.Title,
		PublishYear: yearFromRawDate(movie.ReleaseDate),
		PublishDate: parseCalendarDate(movie.ReleaseDate),
		Specifics:   MovieMediaSpecifics(runtime),
	}

	if poster := tmdbPosterURL(movie.PosterPath); poster != "" {
		record.Images = []Image{{Location: ImageRemote, Value: poster}}
	}

	if description := firstNonEmpty(movie.Overview, movie.Tagline); description != "" {
		record.Description = &description
	}

	var genres []string
	for _, genre := range movie.Genres {
		genres = append(genres, genre.Name)
	}
	record.Genres = uniqueStrings(genres)

	return record, nil
}
