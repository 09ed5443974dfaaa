// file: internal/metadata/errors.go
// version: 1.1.0
// guid: 9e2d7b40-3f6a-4c18-b5e9-d80a14f6c2e7

package metadata

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that an identifier does not exist upstream.
var ErrNotFound = errors.New("media not found")

// ErrMissingIdentifier reports an upstream item with no usable identifier.
// Such an item cannot become a record, so the whole call fails rather than
// returning partial results.
var ErrMissingIdentifier = errors.New("upstream item missing identifier")

// ConfigError reports a provider configured with an unsupported locale. It is
// returned from constructors so a bad configuration fails at startup, not on
// the first request.
type ConfigError struct {
	Source SourceKind
	Locale string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: unsupported locale %q", e.Source, e.Locale)
}

// UpstreamError reports a failed upstream call. Transport failures,
// unexpected HTTP statuses and undecodable payloads all land here; callers
// that care can inspect Status or unwrap Err, but most should treat every
// UpstreamError the same way.
type UpstreamError struct {
	Source SourceKind
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s returned status %d", e.Source, e.Op, e.Status)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AssertionError reports a broken provider contract, for example a stored
// image on a freshly normalized search result. Retrying cannot help; the
// response itself violated an invariant this layer depends on.
type AssertionError struct {
	Source  SourceKind
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: assertion failed: %s", e.Source, e.Message)
}
