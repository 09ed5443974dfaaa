// file: internal/models/source.go
// version: 1.0.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package models

import "github.com/jdfalk/media-metadata-gateway/internal/metadata"

// SourceInfo describes one registered metadata provider
type SourceInfo struct {
	Source          metadata.SourceKind `json:"source"`
	Kind            metadata.MediaKind  `json:"kind"`
	DefaultLanguage string              `json:"default_language"`
	Languages       []string            `json:"languages"`
}

// SourceListResponse lists every registered provider with its capabilities
type SourceListResponse struct {
	Sources []SourceInfo `json:"sources"`
	Count   int          `json:"count"`
}

// SearchRequest represents the query parameters for a metadata search
type SearchRequest struct {
	Query string `json:"q" form:"q"`
	Page  int    `json:"page" form:"page"`
}

// SourceSearchResponse wraps a single provider's search envelope
type SourceSearchResponse struct {
	Source   metadata.SourceKind         `json:"source"`
	Query    string                      `json:"query"`
	Page     int                         `json:"page"`
	Total    int                         `json:"total"`
	Items    []metadata.SearchResultItem `json:"items"`
	NextPage *int                        `json:"next_page,omitempty"`
}

// MultiSearchResponse aggregates per-source search envelopes from a
// concurrent fan-out. Each source keeps its own envelope; results are
// never merged into a single pagination stream. Sources that failed
// appear in Errors instead of Results.
type MultiSearchResponse struct {
	Query   string                                        `json:"query"`
	Page    int                                           `json:"page"`
	Results map[metadata.SourceKind]*SourceSearchResponse `json:"results"`
	Errors  map[metadata.SourceKind]string                `json:"errors,omitempty"`
}
