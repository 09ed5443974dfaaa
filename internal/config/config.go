// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	AudibleLocale     string
	OpenLibraryLocale string
	TMDBLanguage      string
	EnabledSources    []string
	APIKeys           struct {
		TMDB string
	}
	Server struct {
		Host               string
		Port               int
		RateLimitPerMinute int
		RateLimitBurst     int
	}
	Cache struct {
		TTLMinutes int
	}
}

var AppConfig Config

// InitConfig initializes the application configuration
func InitConfig() {
	// Set defaults
	viper.SetDefault("audible_locale", "us")
	viper.SetDefault("openlibrary_locale", "us")
	viper.SetDefault("tmdb_language", "en")
	viper.SetDefault("enabled_sources", []string{"audible", "openlibrary", "tmdb"})
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.rate_limit_per_minute", 120)
	viper.SetDefault("server.rate_limit_burst", 30)
	viper.SetDefault("cache.ttl_minutes", 15)

	AppConfig = Config{
		AudibleLocale:     viper.GetString("audible_locale"),
		OpenLibraryLocale: viper.GetString("openlibrary_locale"),
		TMDBLanguage:      viper.GetString("tmdb_language"),
		EnabledSources:    viper.GetStringSlice("enabled_sources"),
	}

	// API Keys
	AppConfig.APIKeys.TMDB = viper.GetString("api_keys.tmdb")

	// Server
	AppConfig.Server.Host = viper.GetString("server.host")
	AppConfig.Server.Port = viper.GetInt("server.port")
	AppConfig.Server.RateLimitPerMinute = viper.GetInt("server.rate_limit_per_minute")
	AppConfig.Server.RateLimitBurst = viper.GetInt("server.rate_limit_burst")

	// Cache
	AppConfig.Cache.TTLMinutes = viper.GetInt("cache.ttl_minutes")

	if len(AppConfig.EnabledSources) == 0 {
		AppConfig.EnabledSources = []string{"audible", "openlibrary", "tmdb"}
	}
}

// SourceEnabled reports whether a source name appears in the enabled list.
func SourceEnabled(name string) bool {
	for _, enabled := range AppConfig.EnabledSources {
		if enabled == name {
			return true
		}
	}
	return false
}
