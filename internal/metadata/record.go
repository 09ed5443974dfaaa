// file: internal/metadata/record.go
// version: 1.2.0
// guid: 7f3a9c21-4b8d-4e6a-9f02-c5d1e8a37b64

package metadata

import (
	"fmt"
	"time"
)

// SourceKind identifies one of the upstream metadata providers.
type SourceKind string

const (
	SourceAudible     SourceKind = "audible"
	SourceOpenLibrary SourceKind = "openlibrary"
	SourceTMDB        SourceKind = "tmdb"
)

// MediaKind is the class of media a provider serves. Every record and search
// result a provider produces carries that provider's single kind.
type MediaKind string

const (
	KindAudioBook MediaKind = "audiobook"
	KindBook      MediaKind = "book"
	KindMovie     MediaKind = "movie"
)

// ImageLocation says how an Image value is addressed.
type ImageLocation string

const (
	// ImageRemote means the value is a URL reachable over the network.
	ImageRemote ImageLocation = "remote"
	// ImageStored means the value is a content-addressed key in local storage.
	// Upstream providers never produce stored images; the variant exists for
	// records that re-enter this layer after their artwork was archived.
	ImageStored ImageLocation = "stored"
)

// Image is one piece of artwork attached to a media record.
type Image struct {
	Location ImageLocation `json:"location"`
	Value    string        `json:"value"`
}

// Creator roles produced by the built-in providers.
const (
	RoleAuthor   = "Author"
	RoleNarrator = "Narrator"
)

// Creator is a person credited on a media record in a specific role. The same
// name may appear once per role, for example an author who narrates their own
// book.
type Creator struct {
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	ImageURLs []string `json:"image_urls,omitempty"`
}

// AudioBookSpecifics carries attributes that only exist for audiobooks.
type AudioBookSpecifics struct {
	RuntimeMinutes *int `json:"runtime_minutes,omitempty"`
}

// BookSpecifics carries attributes that only exist for print books.
type BookSpecifics struct {
	Pages *int `json:"pages,omitempty"`
}

// MovieSpecifics carries attributes that only exist for movies.
type MovieSpecifics struct {
	RuntimeMinutes *int `json:"runtime_minutes,omitempty"`
}

// MediaSpecifics is a tagged union of per-kind attributes. Kind names the
// variant; exactly the variant it names is populated. Build values through
// the per-kind constructors so the tag and variant cannot drift apart.
type MediaSpecifics struct {
	Kind      MediaKind           `json:"kind"`
	AudioBook *AudioBookSpecifics `json:"audiobook,omitempty"`
	Book      *BookSpecifics      `json:"book,omitempty"`
	Movie     *MovieSpecifics     `json:"movie,omitempty"`
}

// AudioBookMediaSpecifics builds the audiobook variant.
func AudioBookMediaSpecifics(runtimeMinutes *int) MediaSpecifics {
	return MediaSpecifics{
		Kind:      KindAudioBook,
		AudioBook: &AudioBookSpecifics{RuntimeMinutes: runtimeMinutes},
	}
}

// BookMediaSpecifics builds the book variant.
func BookMediaSpecifics(pages *int) MediaSpecifics {
	return MediaSpecifics{
		Kind: KindBook,
		Book: &BookSpecifics{Pages: pages},
	}
}

// MovieMediaSpecifics builds the movie variant.
func MovieMediaSpecifics(runtimeMinutes *int) MediaSpecifics {
	return MediaSpecifics{
		Kind:  KindMovie,
		Movie: &MovieSpecifics{RuntimeMinutes: runtimeMinutes},
	}
}

// Validate checks that exactly the variant named by Kind is populated.
func (s MediaSpecifics) Validate() error {
	var want, others int
	switch s.Kind {
	case KindAudioBook:
		want = boolToInt(s.AudioBook != nil)
		others = boolToInt(s.Book != nil) + boolToInt(s.Movie != nil)
	case KindBook:
		want = boolToInt(s.Book != nil)
		others = boolToInt(s.AudioBook != nil) + boolToInt(s.Movie != nil)
	case KindMovie:
		want = boolToInt(s.Movie != nil)
		others = boolToInt(s.AudioBook != nil) + boolToInt(s.Book != nil)
	default:
		return fmt.Errorf("unknown media kind %q", s.Kind)
	}
	if want == 0 {
		return fmt.Errorf("specifics for kind %q missing the %q variant", s.Kind, s.Kind)
	}
	if others != 0 {
		return fmt.Errorf("specifics for kind %q carry a foreign variant", s.Kind)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MediaRecord is the canonical, provider-independent description of one media
// item. Optional fields are pointers; an absent value means the upstream had
// nothing usable, never that normalization failed.
type MediaRecord struct {
	Identifier  string         `json:"identifier"`
	Source      SourceKind     `json:"source"`
	Kind        MediaKind      `json:"kind"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Creators    []Creator      `json:"creators,omitempty"`
	Genres      []string       `json:"genres,omitempty"`
	PublishYear *int           `json:"publish_year,omitempty"`
	PublishDate *time.Time     `json:"publish_date,omitempty"`
	Images      []Image        `json:"images,omitempty"`
	Specifics   MediaSpecifics `json:"specifics"`
}

// SearchResultItem is the narrowed per-item view inside a search envelope.
type SearchResultItem struct {
	Identifier  string    `json:"identifier"`
	Kind        MediaKind `json:"kind"`
	Title       string    `json:"title"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	PublishYear *int      `json:"publish_year,omitempty"`
}

// SearchResults is the envelope for one page of search results. NextPage is
// nil on the last page.
type SearchResults struct {
	Total    int                `json:"total"`
	Items    []SearchResultItem `json:"items"`
	NextPage *int               `json:"next_page,omitempty"`
}

// SearchItem narrows a full record down to its search representation.
// Records normalized from upstream payloads only ever carry remote images, so
// meeting a stored image here means the provider broke its own contract; that
// is reported as an AssertionError rather than silently dropped.
func (r *MediaRecord) SearchItem() (SearchResultItem, error) {
	var urls []string
	for _, img := range r.Images {
		if img.Location != ImageRemote {
			return SearchResultItem{}, &AssertionError{
				Source:  r.Source,
				Message: fmt.Sprintf("search result %q carries a %s image", r.Identifier, img.Location),
			}
		}
		urls = append(urls, img.Value)
	}
	return SearchResultItem{
		Identifier:  r.Identifier,
		Kind:        r.Kind,
		Title:       r.Title,
		ImageURLs:   urls,
		PublishYear: r.PublishYear,
	}, nil
}
