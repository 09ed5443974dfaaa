// file: internal/metadata/source.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-e1f2a3b4c5d6

package metadata

import "context"

// Version is the module version reported to upstream APIs.
const Version = "1.2.0"

// UserAgent identifies this service on every outbound request.
const UserAgent = "media-metadata-gateway/" + Version

// LanguageSupport declares the locale codes a provider accepts. It is static
// capability data; reading it performs no I/O.
type LanguageSupport struct {
	Supported []string `json:"supported"`
	Default   string   `json:"default"`
}

// Provider is a pluggable metadata source. Implementations are immutable
// after construction and safe for unbounded concurrent use.
type Provider interface {
	// Source identifies the upstream this provider talks to.
	Source() SourceKind
	// Kind is the single media class every record from this provider has.
	Kind() MediaKind
	// Languages reports the locale codes the provider can be configured with.
	Languages() LanguageSupport
	// Search runs a title query against the upstream and returns one page of
	// narrowed results. page is 1-based; values below 1 mean the first page.
	Search(ctx context.Context, query string, page int) (*SearchResults, error)
	// Details fetches the full canonical record for a provider-assigned
	// identifier. Returns ErrNotFound when the upstream has no such item.
	Details(ctx context.Context, identifier string) (*MediaRecord, error)
}
