package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"storyscroll/tts"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List available narration voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return tts.ListVoices(context.Background(), os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}
