package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"storyscroll/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "storyscroll",
	Short: "Render horror stories into narrated scrolling videos",
	Long: `Storyscroll scrapes horror stories from reddit and renders them as
short-form vertical videos: the story text scrolls over a darkened
background photograph while a TTS narration reads it aloud.`,
}

func Execute() error {
	// .env is local-dev only; CI environments inject real env vars.
	_ = godotenv.Load()
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgPath)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to config file")
}
