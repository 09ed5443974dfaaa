// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jdfalk/media-metadata-gateway/internal/matcher"
	"github.com/spf13/cobra"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging helpers",
		Long:  "Diagnostic utilities for checking source connectivity and configuration.",
	}

	probeCmd = &cobra.Command{
		Use:   "probe",
		Short: "Run a live search against every configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return runProviderProbe(query, timeout)
		},
	}

	localesCmd = &cobra.Command{
		Use:   "locales",
		Short: "Show the locales each source accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocaleListing()
		},
	}
)

func init() {
	probeCmd.Flags().String("query", "the hobbit", "Search term used for the probe")
	probeCmd.Flags().Duration("timeout", 10*time.Second, "Per-probe deadline")

	diagnosticsCmd.AddCommand(probeCmd)
	diagnosticsCmd.AddCommand(localesCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

// runProviderProbe fires one search at each configured source and reports
// latency and result counts. A non-nil error means at least one source is
// unreachable or misconfigured.
func runProviderProbe(query string, timeout time.Duration) error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Printf("Probing %d sources with query %q\n", registry.Len(), query)

	failed := 0
	for _, provider := range registry.Providers() {
		start := time.Now()
		results, err := provider.Search(ctx, query, 1)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			failed++
			fmt.Printf("%-12s FAIL  %-8s %s\n", provider.Source(), elapsed, truncateString(err.Error(), 120))
			continue
		}

		line := fmt.Sprintf("%-12s OK    %-8s %d results", provider.Source(), elapsed, results.Total)
		if match := matcher.BestItem(query, results.Items, 0); match != nil {
			line += fmt.Sprintf("  best %q (%d)", match.Item.Title, match.Score)
		}
		fmt.Println(line)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed the probe", failed, registry.Len())
	}
	return nil
}

func runLocaleListing() error {
	registry, err := buildRegistry()
	if err != nil {
		return err
	}

	for _, provider := range registry.Providers() {
		languages := provider.Languages()
		fmt.Printf("%s (%s):\n", provider.Source(), provider.Kind())
		for _, code := range languages.Supported {
			marker := " "
			if code == languages.Default {
				marker = "*"
			}
			fmt.Printf("  %s %s\n", marker, code)
		}
	}
	return nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
