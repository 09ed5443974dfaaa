// file: internal/metadata/audible.go
// version: 1.3.0
// guid: e7c2a954-1d8f-4b36-9a07-f5b3d6e81c29

package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// audibleDefaultLocale is used when no locale is configured.
const audibleDefaultLocale = "us"

// audibleLocaleSuffixes maps each supported marketplace locale to the domain
// suffix of its catalog API. The keys are the complete set of locales this
// provider accepts.
var audibleLocaleSuffixes = map[string]string{
	"au": "co.au",
	"ca": "ca",
	"de": "de",
	"es": "es",
	"fr": "fr",
	"gb": "co.uk",
	"in": "co.in",
	"it": "it",
	"jp": "co.jp",
	"us": "com",
}

// AudibleClient fetches audiobook metadata from the Audible catalog API.
// Catalog lookups need no credentials; each marketplace lives on its own
// top-level domain, chosen by locale at construction time.
type AudibleClient struct {
	httpClient *http.Client
	baseURL    string
	locale     string
}

var _ Provider = (*AudibleClient)(nil)

// NewAudibleClient creates an Audible catalog client for the given locale.
// An empty locale means the default marketplace. Unsupported locales are
// rejected here so a bad configuration fails at startup instead of producing
// request URLs for a domain that does not exist.
func NewAudibleClient(locale string) (*AudibleClient, error) {
	if locale == "" {
		locale = audibleDefaultLocale
	}
	suffix, ok := audibleLocaleSuffixes[locale]
	if !ok {
		return nil, &ConfigError{Source: SourceAudible, Locale: locale}
	}
	return &AudibleClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    fmt.Sprintf("https://api.audible.%s/1.0/catalog/products", suffix),
		locale:     locale,
	}, nil
}

// NewAudibleClientWithBaseURL creates a client with a custom base URL (for testing).
func NewAudibleClientWithBaseURL(baseURL string) *AudibleClient {
	return &AudibleClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		locale:     audibleDefaultLocale,
	}
}

// Source identifies this provider.
func (c *AudibleClient) Source() SourceKind {
	return SourceAudible
}

// Kind reports the media class this provider serves.
func (c *AudibleClient) Kind() MediaKind {
	return KindAudioBook
}

// Languages lists the marketplace locales the client accepts.
func (c *AudibleClient) Languages() LanguageSupport {
	supported := make([]string, 0, len(audibleLocaleSuffixes))
	for code := range audibleLocaleSuffixes {
		supported = append(supported, code)
	}
	sort.Strings(supported)
	return LanguageSupport{Supported: supported, Default: audibleDefaultLocale}
}

// audiblePrimaryQuery returns the parameters shared by every catalog request:
// the response groups carrying contributors, categories and artwork, and the
// cover resolution to ask for.
func audiblePrimaryQuery() url.Values {
	return url.Values{
		"response_groups": {"contributors,category_ladders,media,product_attrs,product_extended_attrs"},
		"image_sizes":     {"2400"},
	}
}

// audibleSearchQuery builds the parameter set for a title search. The catalog
// pages are 0-based; the 1-based page from the contract is shifted here and
// nowhere else.
func audibleSearchQuery(title string, page int) url.Values {
	if page < 1 {
		page = 1
	}
	query := audiblePrimaryQuery()
	query.Set("title", title)
	query.Set("num_results", strconv.Itoa(PageLimit))
	query.Set("page", strconv.Itoa(page-1))
	query.Set("products_sort_by", "Relevance")
	return query
}

// Audible catalog payload types. Only the fields normalization reads are
// declared; the API returns far more.
type audiblePerson struct {
	Name string `json:"name"`
}

type audibleImageSet struct {
	Full string `json:"2400"`
}

type audibleLadderEntry struct {
	Name string `json:"name"`
}

type audibleLadder struct {
	Ladder []audibleLadderEntry `json:"ladder"`
}

type audibleItem struct {
	ASIN                 string           `json:"asin"`
	Title                string           `json:"title"`
	Authors              []audiblePerson  `json:"authors"`
	Narrators            []audiblePerson  `json:"narrators"`
	ProductImages        *audibleImageSet `json:"product_images"`
	MerchandisingSummary string           `json:"merchandising_summary"`
	PublisherSummary     string           `json:"publisher_summary"`
	ReleaseDate          string           `json:"release_date"`
	RuntimeLengthMin     *int             `json:"runtime_length_min"`
	CategoryLadders      []audibleLadder  `json:"category_ladders"`
}

type audibleSearchResponse struct {
	TotalResults int           `json:"total_results"`
	Products     []audibleItem `json:"products"`
}

type audibleDetailsResponse struct {
	Product audibleItem `json:"product"`
}

// Search runs a title search against the catalog and returns one page of
// narrowed results. The catalog reports the full match count, so the envelope
// carries a next page exactly when matches remain past this one.
func (c *AudibleClient) Search(ctx context.Context, query string, page int) (*SearchResults, error) {
	if page < 1 {
		page = 1
	}

	searchURL := fmt.Sprintf("%s?%s", c.baseURL, audibleSearchQuery(query, page).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "search", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "search", Err: fmt.Errorf("failed to search Audible catalog: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceAudible, Op: "search", Status: resp.StatusCode}
	}

	var payload audibleSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "search", Err: fmt.Errorf("failed to decode search response: %w", err)}
	}

	items := make([]SearchResultItem, 0, len(payload.Products))
	for i := range payload.Products {
		record, err := normalizeAudibleItem(&payload.Products[i])
		if err != nil {
			return nil, &UpstreamError{Source: SourceAudible, Op: "search", Err: err}
		}
		item, err := record.SearchItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	log.Printf("[DEBUG] Audible search %q page %d: %d of %d results", query, page, len(items), payload.TotalResults)
	return NewSearchResults(payload.TotalResults, items, page), nil
}

// Details fetches the full record for an ASIN.
func (c *AudibleClient) Details(ctx context.Context, identifier string) (*MediaRecord, error) {
	detailsURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(identifier), audiblePrimaryQuery().Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailsURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "details", Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "details", Err: fmt.Errorf("failed to fetch Audible product: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Source: SourceAudible, Op: "details", Status: resp.StatusCode}
	}

	var payload audibleDetailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "details", Err: fmt.Errorf("failed to decode product response: %w", err)}
	}

	record, err := normalizeAudibleItem(&payload.Product)
	if err != nil {
		return nil, &UpstreamError{Source: SourceAudible, Op: "details", Err: err}
	}
	return record, nil
}

// normalizeAudibleItem maps one catalog product onto the canonical record.
// An item without an ASIN is a malformed response and fails the whole call;
// missing artwork, dates and summaries just leave those fields empty.
func normalizeAudibleItem(item *audibleItem) (*MediaRecord, error) {
	if item.ASIN == "" {
		return nil, ErrMissingIdentifier
	}

	record := &MediaRecord{
		Identifier:  item.ASIN,
		Source:      SourceAudible,
		Kind:        KindAudioBook,
		Title:       item.Title,
		PublishYear: yearFromRawDate(item.ReleaseDate),
		PublishDate: parseCalendarDate(item.ReleaseDate),
		Specifics:   AudioBookMediaSpecifics(item.RuntimeLengthMin),
	}

	if item.ProductImages != nil && item.ProductImages.Full != "" {
		record.Images = []Image{{Location: ImageRemote, Value: item.ProductImages.Full}}
	}

	// Authors first, then narrators. A person credited in both roles appears
	// twice, once per role.
	for _, author := range item.Authors {
		record.Creators = append(record.Creators, Creator{Name: author.Name, Role: RoleAuthor})
	}
	for _, narrator := range item.Narrators {
		record.Creators = append(record.Creators, Creator{Name: narrator.Name, Role: RoleNarrator})
	}

	if description := firstNonEmpty(item.PublisherSummary, item.MerchandisingSummary); description != "" {
		record.Description = &description
	}

	var genres []string
	for _, ladder := range item.CategoryLadders {
		for _, entry := range ladder.Ladder {
			genres = append(genres, entry.Name)
		}
	}
	record.Genres = uniqueStrings(genres)

	return record, nil
}
