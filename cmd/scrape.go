package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"storyscroll/research"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape configured subreddits and refresh the story pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Paths.Stories), 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		// Reddit allows roughly 10 unauthenticated requests per
		// minute; stay under that.
		limiter := rate.NewLimiter(rate.Every(6*time.Second), 1)
		scraper, err := research.New(cfg, limiter)
		if err != nil {
			return err
		}
		_, err = scraper.Run(context.Background())
		return err
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}
