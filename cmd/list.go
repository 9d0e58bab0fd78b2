package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyscroll/research"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the story pool with indexes for render --index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		stories, err := research.LoadStories(cfg.Paths.Stories)
		if err != nil {
			return fmt.Errorf("load story pool (run `storyscroll scrape` first): %w", err)
		}

		used := make(map[string]bool)
		if scraperUsed, err := research.LoadUsed(cfg.Paths.UsedStoriesLog); err == nil {
			used = scraperUsed
		}

		fmt.Printf("%-4s %-6s %-6s %-5s %s\n", "#", "score", "words", "used", "title")
		for i, st := range stories {
			mark := ""
			if used[st.ID] {
				mark = "✓"
			}
			title := st.Title
			if len(title) > 70 {
				title = title[:67] + "..."
			}
			fmt.Printf("%-4d %-6d %-6d %-5s %s\n", i, st.Score, st.WordCount, mark, title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
