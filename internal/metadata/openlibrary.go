// file: internal/metadata/openlibrary.go
// version: 2.1.0
// guid: 1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d

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

// openLibraryCoverBase serves cover and author images by numeric ID. The
// image host is separate from the API host and stays fixed even when the API
// base URL is overridden in tests.
const openLibraryCoverBase = "https://covers.openlibrary.org"

const openLibraryDefaultLocale = "us"

// OpenLibraryClient fetches book metadata from the Open Library API. Open
// Library has a single worldwide catalog, so only the default locale is
// accepted.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ Provider = (*OpenLibraryClient)(nil)

// NewOpenLibraryClient creates an Open Library API client. The locale is
// validated up front like every provider's, even though only one value
// exists.
func NewOpenLibraryClient(locale string) (*OpenLibraryClient, error) {
	if locale == "" {
		locale = openLibraryDefaultLocale
	}
	if locale != openLibraryDefaultLocale {
		return nil, &ConfigError{Source: SourceOpenLibrary, Locale: locale}
	}
	return NewOpenLibraryClientWithBaseURL("https://openlibrary.org"), nil
}

// NewOpenLibraryClientWithBaseURL creates a client with a custom base URL (for testing).
func NewOpenLibraryClientWithBaseURL(baseURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Source identifies this provider.
func (c *OpenLibraryClient) Source() SourceKind {
	return SourceOpenLibrary
}

// Kind reports the media class this provider serves.
func (c *OpenLibraryClient) Kind() MediaKind {
	return KindBook
}

// Languages reports the single catalog locale.
func (c *OpenLibraryClient) Languages() LanguageSupport {
	return LanguageSupport{Supported: []string{openLibraryDefaultLocale}, Default: openLibraryDefaultLocale}
}

// openLibrarySearchQuery builds the parameter set for a title search. Open
// Library paginates by offset; the 1-based page from the contract is
// translated here.
func openLibrarySearchQuery(title string, page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{
		"title":  {title},
		"limit":  {strconv.Itoa(PageLimit)},
		"offset": {strconv.Itoa((page - 1) * PageLimit)},
	}
}

// olText decodes Open Library fields that arrive either as a bare string or
// as a {"type": ..., "value": ...} object. Both shapes occur in the wild for
// the same field.
type olText struct {
	Value string
}

func (t *olText) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Value)
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	t.Value = obj.Value
	return nil
}

type olSearchDoc struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	CoverI           int    `json:"cover_i"`
	FirstPublishYear *int   `json:"first_publish_year"`
}

type olSearchResponse struct {
	NumFound int           `json:"numFound"`
	Docs     []olSearchDoc `json:"docs"`
}

type olAuthorRef struct {
	Author struct {
		Key string `json:"key"`
	} `json:"author"`
}

type olWork struct {
	Key              string        `json:"key"`
	Title            string        `json:"title"`
	Description      *olText       `json:"description"`
	FirstSentence    *olText       `json:"first_sentence"`
	Covers           []int         `json:"covers"`
	Subjects         []string      `json:"subjects"`
	Authors          []olAuthorRef `json:"authors"`
	FirstPublishDate string        `json:"first_publish_date"`
	NumberOfPages    *int          `json:"number_of_pages"`
}

type olAuthor struct {
	Name   string `json:"name"`
	Photos []int  `json:"photos"`
}

// olWorkIdentifier strips the "/works/" routing prefix from a record key.
// Identifiers are stored bare so details can rebuild the path itself.
func olWorkIdentifier(key string) string {
	return strings.TrimPrefix(key, "/works/")
}

// Search runs a title search against /search.json and returns one page of
// narrowed results.
func (c *OpenLibraryClient) Search(ctx context.Context, query string, page int) (*SearchResults, error) {
	if page < 1 {
		page = 1
	}

	searchURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, openLibrarySearchQuery(query, page).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "search", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "search", Err: fmt.Errorf("failed to search Open Library: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "search", Status: resp.StatusCode}
	}

	var payload olSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "search", Err: fmt.Errorf("failed to decode search response: %w", err)}
	}

	items := make([]SearchResultItem, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		identifier := olWorkIdentifier(doc.Key)
		if identifier == "" {
			return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "search", Err: ErrMissingIdentifier}
		}
		item := SearchResultItem{
			Identifier:  identifier,
			Kind:        KindBook,
			Title:       doc.Title,
			PublishYear: doc.FirstPublishYear,
		}
		if doc.CoverI > 0 {
			item.ImageURLs = []string{fmt.Sprintf("%s/b/id/%d-L.jpg", openLibraryCoverBase, doc.CoverI)}
		}
		items = append(items, item)
	}

	log.Printf("[DEBUG] Open Library search %q page %d: %d of %d results", query, page, len(items), payload.NumFound)
	return NewSearchResults(payload.NumFound, items, page), nil
}

// Details fetches a work record and resolves each credited author's name
// through /authors/{key}.json. Author lookups are part of the details call;
// a failed lookup fails the call.
func (c *OpenLibraryClient) Details(ctx context.Context, identifier string) (*MediaRecord, error) {
	workURL := fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(identifier))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: fmt.Errorf("failed to fetch Open Library work: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Status: resp.StatusCode}
	}

	var work olWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: fmt.Errorf("failed to decode work response: %w", err)}
	}

	recordID := olWorkIdentifier(work.Key)
	if recordID == "" {
		recordID = identifier
	}
	if recordID == "" {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: ErrMissingIdentifier}
	}

	record := &MediaRecord{
		Identifier:  recordID,
		Source:      SourceOpenLibrary,
		Kind:        KindBook,
		Title:       work.Title,
		PublishYear: yearFromRawDate(work.FirstPublishDate),
		PublishDate: parseCalendarDate(work.FirstPublishDate),
		Genres:      uniqueStrings(work.Subjects),
		Specifics:   BookMediaSpecifics(work.NumberOfPages),
	}

	if len(work.Covers) > 0 && work.Covers[0] > 0 {
		record.Images = []Image{{
			Location: ImageRemote,
			Value:    fmt.Sprintf("%s/b/id/%d-L.jpg", openLibraryCoverBase, work.Covers[0]),
		}}
	}

	var primary, secondary string
	if work.Description != nil {
		primary = work.Description.Value
	}
	if work.FirstSentence != nil {
		secondary = work.FirstSentence.Value
	}
	if description := firstNonEmpty(primary, secondary); description != "" {
		record.Description = &description
	}

	for _, ref := range work.Authors {
		authorKey := strings.TrimPrefix(ref.Author.Key, "/authors/")
		if authorKey == "" {
			continue
		}
		author, err := c.fetchAuthor(ctx, authorKey)
		if err != nil {
			return nil, err
		}
		creator := Creator{Name: author.Name, Role: RoleAuthor}
		if len(author.Photos) > 0 && author.Photos[0] > 0 {
			creator.ImageURLs = []string{fmt.Sprintf("%s/a/id/%d-L.jpg", openLibraryCoverBase, author.Photos[0])}
		}
		record.Creators = append(record.Creators, creator)
	}

	return record, nil
}

func (c *OpenLibraryClient) fetchAuthor(ctx context.Context, key string) (*olAuthor, error) {
	authorURL := fmt.Sprintf("%s/authors/%s.json", c.baseURL, url.PathEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, authorURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: fmt.Errorf("failed to fetch Open Library author %s: %w", key, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Status: resp.StatusCode}
	}

	var author olAuthor
	if err := json.NewDecoder(resp.Body).Decode(&author); err != nil {
		return nil, &UpstreamError{Source: SourceOpenLibrary, Op: "details", Err: fmt.Errorf("failed to decode author response: %w", err)}
	}
	return &author, nil
}
