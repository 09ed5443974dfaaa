// file: internal/config/config_test.go
// version: 2.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-2f3a4b5c6d7e

package config

import (
	"testing"

	"github.com/spf13/viper"
)

// TestInitConfig tests configuration initialization with defaults
func TestInitConfig(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert - Verify locale defaults
	if AppConfig.AudibleLocale != "us" {
		t.Errorf("Expected audible_locale to be 'us', got '%s'", AppConfig.AudibleLocale)
	}

	if AppConfig.OpenLibraryLocale != "us" {
		t.Errorf("Expected openlibrary_locale to be 'us', got '%s'", AppConfig.OpenLibraryLocale)
	}

	if AppConfig.TMDBLanguage != "en" {
		t.Errorf("Expected tmdb_language to be 'en', got '%s'", AppConfig.TMDBLanguage)
	}
}

// TestEnabledSourcesDefaults tests the default enabled sources
func TestEnabledSourcesDefaults(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert
	expected := []string{"audible", "openlibrary", "tmdb"}
	if len(AppConfig.EnabledSources) != len(expected) {
		t.Fatalf("Expected %d enabled sources, got %d", len(expected), len(AppConfig.EnabledSources))
	}
	for i, want := range expected {
		if AppConfig.EnabledSources[i] != want {
			t.Errorf("Expected source %d to be '%s', got '%s'", i, want, AppConfig.EnabledSources[i])
		}
	}
}

// TestServerDefaults tests the server configuration defaults
func TestServerDefaults(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert
	if AppConfig.Server.Host != "0.0.0.0" {
		t.Errorf("Expected server host '0.0.0.0', got '%s'", AppConfig.Server.Host)
	}
	if AppConfig.Server.Port != 8080 {
		t.Errorf("Expected server port 8080, got %d", AppConfig.Server.Port)
	}
	if AppConfig.Server.RateLimitPerMinute != 120 {
		t.Errorf("Expected rate limit 120 per minute, got %d", AppConfig.Server.RateLimitPerMinute)
	}
	if AppConfig.Server.RateLimitBurst != 30 {
		t.Errorf("Expected rate limit burst 30, got %d", AppConfig.Server.RateLimitBurst)
	}
}

// TestAPIKeyDefaults tests that API keys default to empty
func TestAPIKeyDefaults(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert
	if AppConfig.APIKeys.TMDB != "" {
		t.Errorf("Expected api_keys.tmdb to be empty by default, got '%s'", AppConfig.APIKeys.TMDB)
	}
}

// TestCacheDefaults tests the cache configuration defaults
func TestCacheDefaults(t *testing.T) {
	// Arrange
	viper.Reset()

	// Act
	InitConfig()

	// Assert
	if AppConfig.Cache.TTLMinutes != 15 {
		t.Errorf("Expected cache TTL 15 minutes, got %d", AppConfig.Cache.TTLMinutes)
	}
}

// TestConfigOverrides tests that explicit settings win over defaults
func TestConfigOverrides(t *testing.T) {
	// Arrange
	viper.Reset()
	viper.Set("audible_locale", "gb")
	viper.Set("tmdb_language", "de")
	viper.Set("api_keys.tmdb", "test-key")
	viper.Set("enabled_sources", []string{"audible"})

	// Act
	InitConfig()

	// Assert
	if AppConfig.AudibleLocale != "gb" {
		t.Errorf("Expected audible_locale 'gb', got '%s'", AppConfig.AudibleLocale)
	}
	if AppConfig.TMDBLanguage != "de" {
		t.Errorf("Expected tmdb_language 'de', got '%s'", AppConfig.TMDBLanguage)
	}
	if AppConfig.APIKeys.TMDB != "test-key" {
		t.Errorf("Expected api_keys.tmdb 'test-key', got '%s'", AppConfig.APIKeys.TMDB)
	}
	if len(AppConfig.EnabledSources) != 1 || AppConfig.EnabledSources[0] != "audible" {
		t.Errorf("Expected enabled_sources [audible], got %v", AppConfig.EnabledSources)
	}
}

// TestSourceEnabled tests the enabled-source lookup
func TestSourceEnabled(t *testing.T) {
	// Arrange
	viper.Reset()
	viper.Set("enabled_sources", []string{"audible", "tmdb"})
	InitConfig()

	// Act & Assert
	if !SourceEnabled("audible") {
		t.Error("Expected audible to be enabled")
	}
	if !SourceEnabled("tmdb") {
		t.Error("Expected tmdb to be enabled")
	}
	if SourceEnabled("openlibrary") {
		t.Error("Expected openlibrary to be disabled")
	}
}

// TestEmptyEnabledSourcesFallsBack tests that an empty list restores defaults
func TestEmptyEnabledSourcesFallsBack(t *testing.T) {
	// Arrange
	viper.Reset()
	viper.Set("enabled_sources", []string{})

	// Act
	InitConfig()

	// Assert
	if len(AppConfig.EnabledSources) != 3 {
		t.Errorf("Expected fallback to all 3 sources, got %v", AppConfig.EnabledSources)
	}
}
