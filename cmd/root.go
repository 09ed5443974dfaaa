// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jdfalk/media-metadata-gateway/internal/config"
	"github.com/jdfalk/media-metadata-gateway/internal/matcher"
	"github.com/jdfalk/media-metadata-gateway/internal/metadata"
	"github.com/jdfalk/media-metadata-gateway/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var audibleLocale string
var openLibraryLocale string
var tmdbLanguage string
var tmdbAPIKey string
var enabledSources []string

// Function seams replaced by stubs in command tests.
var (
	buildRegistry          = newRegistryFromConfig
	newServer              = server.NewServer
	getDefaultServerConfig = server.GetDefaultServerConfig
	startServer            = func(srv *server.Server, cfg server.ServerConfig) error { return srv.Start(cfg) }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "media-metadata-gateway",
	Short: "Query media metadata providers through one normalized interface",
	Long: `Media Metadata Gateway talks to third-party metadata providers (Audible,
Open Library, TMDB) and returns their search results and detail records
in a single canonical shape, regardless of which upstream produced them.

Results are printed as JSON on stdout; progress and warnings go to stderr.`,
}

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the configured metadata sources",
	Long:  `List every configured metadata source with its media kind and supported locales.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		svc := server.NewMetadataService(registry)
		return printJSON(svc.ListSources())
	},
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search one or all metadata sources",
	Long: `Search metadata sources for a title. Without --source, every configured
source is queried concurrently and the per-source results are reported
side by side.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		source, _ := cmd.Flags().GetString("source")
		page, _ := cmd.Flags().GetInt("page")
		best, _ := cmd.Flags().GetBool("best")

		if best && source == "" {
			return fmt.Errorf("--best requires --source")
		}

		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		svc := server.NewMetadataService(registry)

		if source == "" {
			fmt.Fprintf(os.Stderr, "Searching %d sources for %q (page %d)\n", registry.Len(), query, page)
			return printJSON(svc.SearchAll(context.Background(), query, page))
		}

		fmt.Fprintf(os.Stderr, "Searching %s for %q (page %d)\n", source, query, page)
		envelope, err := svc.Search(context.Background(), metadata.SourceKind(source), query, page)
		if err != nil {
			return err
		}

		if best {
			match := matcher.BestItem(query, envelope.Items, matcher.DefaultMinScore)
			if match == nil {
				return fmt.Errorf("no %s result matched %q closely enough", source, query)
			}
			return printJSON(match)
		}

		return printJSON(envelope)
	},
}

// detailsCmd represents the details command
var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Fetch the full record for a provider identifier",
	Long: `Fetch the canonical metadata record for one provider-assigned identifier
(an Audible ASIN, an Open Library work key, or a TMDB movie ID).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		registry, err := buildRegistry()
		if err != nil {
			return err
		}
		svc := server.NewMetadataService(registry)

		fmt.Fprintf(os.Stderr, "Fetching %s record %s\n", source, args[0])
		record, err := svc.Details(context.Background(), metadata.SourceKind(source), args[0])
		if err != nil {
			return err
		}
		return printJSON(record)
	},
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metadata gateway HTTP server",
	Long:  `Start the HTTP server that exposes the metadata aggregation API and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := buildRegistry()
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Starting metadata gateway with %d sources\n", registry.Len())

		srv := newServer(registry)
		cfg := getDefaultServerConfig()

		// Explicit flags beat config file values
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("host") {
			cfg.Host, _ = cmd.Flags().GetString("host")
		}
		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return startServer(srv, cfg)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.media-metadata-gateway.yaml)")
	rootCmd.PersistentFlags().StringVar(&audibleLocale, "audible-locale", "us", "Audible marketplace locale (us, gb, de, fr, ...)")
	rootCmd.PersistentFlags().StringVar(&openLibraryLocale, "openlibrary-locale", "us", "Open Library locale")
	rootCmd.PersistentFlags().StringVar(&tmdbLanguage, "tmdb-language", "en", "TMDB result language")
	rootCmd.PersistentFlags().StringVar(&tmdbAPIKey, "tmdb-api-key", "", "TMDB API key (also read from config api_keys.tmdb)")
	rootCmd.PersistentFlags().StringSliceVar(&enabledSources, "sources", []string{"audible", "openlibrary", "tmdb"}, "metadata sources to enable")

	viper.BindPFlag("audible_locale", rootCmd.PersistentFlags().Lookup("audible-locale"))
	viper.BindPFlag("openlibrary_locale", rootCmd.PersistentFlags().Lookup("openlibrary-locale"))
	viper.BindPFlag("tmdb_language", rootCmd.PersistentFlags().Lookup("tmdb-language"))
	viper.BindPFlag("api_keys.tmdb", rootCmd.PersistentFlags().Lookup("tmdb-api-key"))
	viper.BindPFlag("enabled_sources", rootCmd.PersistentFlags().Lookup("sources"))

	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(serveCmd)

	searchCmd.Flags().String("source", "", "restrict the search to one source (audible, openlibrary, tmdb)")
	searchCmd.Flags().Int("page", 1, "1-based result page")
	searchCmd.Flags().Bool("best", false, "print only the result whose title best matches the query (needs --source)")

	detailsCmd.Flags().String("source", "", "metadata source that assigned the identifier")
	detailsCmd.MarkFlagRequired("source")

	// Add serve command specific flags
	serveCmd.Flags().String("port", "8080", "port to run the gateway server on")
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind the gateway server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".media-metadata-gateway")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}

// newRegistryFromConfig builds the provider registry described by the loaded
// configuration. A source whose requirements are not met is skipped with a
// warning rather than failing the whole command.
func newRegistryFromConfig() (*metadata.Registry, error) {
	providers := make([]metadata.Provider, 0, 3)

	if config.SourceEnabled(string(metadata.SourceAudible)) {
		client, err := metadata.NewAudibleClient(config.AppConfig.AudibleLocale)
		if err != nil {
			return nil, fmt.Errorf("audible: %w", err)
		}
		providers = append(providers, client)
	}

	if config.SourceEnabled(string(metadata.SourceOpenLibrary)) {
		client, err := metadata.NewOpenLibraryClient(config.AppConfig.OpenLibraryLocale)
		if err != nil {
			return nil, fmt.Errorf("openlibrary: %w", err)
		}
		providers = append(providers, client)
	}

	if config.SourceEnabled(string(metadata.SourceTMDB)) {
		if config.AppConfig.APIKeys.TMDB == "" {
			log.Printf("[WARN] tmdb source enabled but api_keys.tmdb is empty, skipping")
		} else {
			client, err := metadata.NewTMDBClient(config.AppConfig.APIKeys.TMDB, config.AppConfig.TMDBLanguage)
			if err != nil {
				return nil, fmt.Errorf("tmdb: %w", err)
			}
			providers = append(providers, client)
		}
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no metadata sources available; check enabled_sources and api_keys.tmdb")
	}

	return metadata.NewRegistry(providers...)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
