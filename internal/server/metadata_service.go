// file: internal/server/metadata_service.go
// version: 2.0.0
// guid: e5f6a7b8-c9d0-e1f2-a3b4-c5d6e7f8a9b0

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jdfalk/media-metadata-gateway/internal/cache"
	"github.com/jdfalk/media-metadata-gateway/internal/config"
	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
	"github.com/jdfalk/media-metadata-gateway/internal/metrics"
	"github.com/jdfalk/media-metadata-gateway/internal/models"
)

// errUnknownSource marks requests naming a source that is not registered.
var errUnknownSource = errors.New("unknown metadata source")

// MetadataService answers catalog queries by dispatching to registered
// providers and instrumenting every upstream call.
type MetadataService struct {
	registry *metadata.Registry
	// records caches detail lookups; nil when cache.ttl_minutes is 0.
	records *cache.Cache[*metadata.MediaRecord]
}

func NewMetadataService(registry *metadata.Registry) *MetadataService {
	ms := &MetadataService{registry: registry}
	if ttl := config.AppConfig.Cache.TTLMinutes; ttl > 0 {
		ms.records = cache.New[*metadata.MediaRecord](time.Duration(ttl) * time.Minute)
	}
	return ms
}

// ListSources describes every registered provider.
func (ms *MetadataService) ListSources() *models.SourceListResponse {
	infos := make([]models.SourceInfo, 0, ms.registry.Len())
	for _, provider := range ms.registry.Providers() {
		languages := provider.Languages()
		infos = append(infos, models.SourceInfo{
			Source:          provider.Source(),
			Kind:            provider.Kind(),
			DefaultLanguage: languages.Default,
			Languages:       languages.Supported,
		})
	}
	return &models.SourceListResponse{Sources: infos, Count: len(infos)}
}

// Search runs one provider's search and wraps its envelope for the API.
func (ms *MetadataService) Search(ctx context.Context, source metadata.SourceKind, query string, page int) (*models.SourceSearchResponse, error) {
	provider, ok := ms.registry.Get(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownSource, source)
	}
	if page < 1 {
		page = 1
	}

	results, err := ms.searchProvider(ctx, provider, query, page)
	if err != nil {
		return nil, err
	}

	return &models.SourceSearchResponse{
		Source:   source,
		Query:    query,
		Page:     page,
		Total:    results.Total,
		Items:    results.Items,
		NextPage: results.NextPage,
	}, nil
}

// Details resolves one canonical record from a provider. Records are
// immutable once normalized, so cached pointers are shared safely.
func (ms *MetadataService) Details(ctx context.Context, source metadata.SourceKind, identifier string) (*metadata.MediaRecord, error) {
	provider, ok := ms.registry.Get(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownSource, source)
	}

	key := cache.Key(string(source), identifier)
	if ms.records != nil {
		if record, ok := ms.records.Get(key); ok {
			metrics.IncCacheHit(string(source))
			return record, nil
		}
		metrics.IncCacheMiss(string(source))
	}

	start := time.Now()
	metrics.IncProviderRequest(string(source), "details")
	record, err := provider.Details(ctx, identifier)
	metrics.ObserveProviderDuration(string(source), "details", time.Since(start))
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			metrics.IncProviderNotFound(string(source))
		} else {
			metrics.IncProviderFailure(string(source), "details")
			log.Printf("[WARN] %s details %q failed: %v", source, identifier, err)
		}
		return nil, err
	}
	if ms.records != nil {
		ms.records.Set(key, record)
	}
	return record, nil
}

// SearchAll fans one query out to every registered provider concurrently.
// Each provider keeps its own result envelope; sources that fail land in
// the Errors map without disturbing the rest.
func (ms *MetadataService) SearchAll(ctx context.Context, query string, page int) *models.MultiSearchResponse {
	if page < 1 {
		page = 1
	}

	providers := ms.registry.Providers()
	envelopes := make([]*metadata.SearchResults, len(providers))
	failures := make([]error, len(providers))

	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		go func(i int, provider metadata.Provider) {
			defer wg.Done()
			envelopes[i], failures[i] = ms.searchProvider(ctx, provider, query, page)
		}(i, provider)
	}
	wg.Wait()

	response := &models.MultiSearchResponse{
		Query:   query,
		Page:    page,
		Results: make(map[metadata.SourceKind]*models.SourceSearchResponse, len(providers)),
	}
	for i, provider := range providers {
		source := provider.Source()
		if failures[i] != nil {
			if response.Errors == nil {
				response.Errors = make(map[metadata.SourceKind]string)
			}
			response.Errors[source] = failures[i].Error()
			continue
		}
		response.Results[source] = &models.SourceSearchResponse{
			Source:   source,
			Query:    query,
			Page:     page,
			Total:    envelopes[i].Total,
			Items:    envelopes[i].Items,
			NextPage: envelopes[i].NextPage,
		}
	}
	return response
}

// searchProvider runs a single provider search with metrics instrumentation.
func (ms *MetadataService) searchProvider(ctx context.Context, provider metadata.Provider, query string, page int) (*metadata.SearchResults, error) {
	source := string(provider.Source())

	start := time.Now()
	metrics.IncProviderRequest(source, "search")
	results, err := provider.Search(ctx, query, page)
	metrics.ObserveProviderDuration(source, "search", time.Since(start))
	if err != nil {
		metrics.IncProviderFailure(source, "search")
		log.Printf("[WARN] %s search %q failed: %v", source, query, err)
		return nil, err
	}
	return results, nil
}
