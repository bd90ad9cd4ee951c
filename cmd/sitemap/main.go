// Command sitemap is the offline batch job that refreshes the static SEO
// artifacts: it reads the catalog over the database's REST endpoint, writes
// sitemap.xml, and rewrites the fallback category links in index.html.
//
// Run from the project root and commit the updated files:
//
//	go run ./cmd/sitemap --config marketchoice.yml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"marketchoice.org/web/internal/config"
	"marketchoice.org/web/internal/rtdb"
	"marketchoice.org/web/internal/sitemap"
)

var (
	cfgFile   string
	outFile   string
	indexFile string
)

var rootCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Regenerate sitemap.xml and the index.html fallback links from the live catalog",
	RunE:  run,

	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "marketchoice.yml", "config file path")
	rootCmd.Flags().StringVar(&outFile, "out", "public/sitemap.xml", "sitemap output path")
	rootCmd.Flags().StringVar(&indexFile, "index", "index.html", "index.html to patch (skipped when missing)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database_url is required (config file or MARKETCHOICE_DATABASE_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Fetching catalog...")
	client := rtdb.NewRESTClient(cfg.DatabaseURL)
	cat, err := client.FetchCatalog(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Generating sitemap...")
	xml, err := sitemap.Generate(cat, cfg.BaseURL, time.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, xml, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}
	fmt.Printf("%s updated (%d categories)\n", outFile, cat.Len())

	doc, err := os.ReadFile(indexFile)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("%s not found, skipping fallback links\n", indexFile)
			return nil
		}
		return fmt.Errorf("reading %s: %w", indexFile, err)
	}
	patched, ok := sitemap.PatchFallback(doc, cat, cfg.BaseURL)
	if !ok {
		fmt.Printf("%s has no fallback markers, skipping\n", indexFile)
		return nil
	}
	if err := os.WriteFile(indexFile, patched, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", indexFile, err)
	}
	fmt.Printf("%s fallback links updated\n", indexFile)
	return nil
}
