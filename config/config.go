package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Video      VideoConfig      `yaml:"video"`
	Text       TextConfig       `yaml:"text"`
	Scroll     ScrollConfig     `yaml:"scroll"`
	Background BackgroundConfig `yaml:"background"`
	Audio      AudioConfig      `yaml:"audio"`
	Research   ResearchConfig   `yaml:"research"`
	Upload     UploadConfig     `yaml:"upload"`
	Paths      PathsConfig      `yaml:"paths"`
}

type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type TextConfig struct {
	PaddingX         int     `yaml:"padding_x"`
	TitleFontSize    float64 `yaml:"title_font_size"`
	BodyFontSize     float64 `yaml:"body_font_size"`
	LineSpacing      float64 `yaml:"line_spacing"`
	TitleAuthorGapPx int     `yaml:"title_author_gap_px"`
	ParagraphGapPx   int     `yaml:"paragraph_gap_px"`
	CTAGapPx         int     `yaml:"cta_gap_px"`
	CTAText          string  `yaml:"cta_text"`
	TitleColor       string  `yaml:"title_color"`
	BodyColor        string  `yaml:"body_color"`
	CTAColor         string  `yaml:"cta_color"`
	FontRegular      string  `yaml:"font_regular"`
	FontBold         string  `yaml:"font_bold"`
	FontItalic       string  `yaml:"font_italic"`
	FontBoldItalic   string  `yaml:"font_bold_italic"`
}

type ScrollConfig struct {
	SpeedPxPerSec  float64 `yaml:"speed_px_per_sec"`
	MaxDurationSec float64 `yaml:"max_duration_sec"`
}

type BackgroundConfig struct {
	ScrimOpacity    float64 `yaml:"scrim_opacity"`
	WatermarkCropPx int     `yaml:"watermark_crop_px"`
}

type AudioConfig struct {
	Voice       string  `yaml:"voice"`
	MusicVolume float64 `yaml:"music_volume"`
	Reverb      bool    `yaml:"reverb"`
	SampleRate  int     `yaml:"sample_rate"`
}

type ResearchConfig struct {
	Subreddits   []string `yaml:"subreddits"`
	MinScore     int      `yaml:"min_score"`
	MinWords     int      `yaml:"min_words"`
	LookbackDays int      `yaml:"lookback_days"`
	Limit        int      `yaml:"limit"`
}

type UploadConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	DefaultLanguage   string `yaml:"default_language"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
	MadeForKids       bool   `yaml:"made_for_kids"`
}

type PathsConfig struct {
	Backgrounds    string `yaml:"backgrounds"`
	Music          string `yaml:"music"`
	Stories        string `yaml:"stories"`
	UsedStoriesLog string `yaml:"used_stories_log"`
	Output         string `yaml:"output"`
	Logs           string `yaml:"logs"`
}

// Load reads config.yaml and returns a Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Video.Width == 0 {
		c.Video.Width = 1080
	}
	if c.Video.Height == 0 {
		c.Video.Height = 1920
	}
	if c.Video.FPS == 0 {
		c.Video.FPS = 30
	}
	if c.Text.PaddingX == 0 {
		c.Text.PaddingX = 80
	}
	if c.Text.TitleFontSize == 0 {
		c.Text.TitleFontSize = 56
	}
	if c.Text.BodyFontSize == 0 {
		c.Text.BodyFontSize = 46
	}
	if c.Text.LineSpacing == 0 {
		c.Text.LineSpacing = 1.5
	}
	if c.Text.TitleAuthorGapPx == 0 {
		c.Text.TitleAuthorGapPx = 60
	}
	if c.Text.ParagraphGapPx == 0 {
		c.Text.ParagraphGapPx = 46
	}
	if c.Text.CTAGapPx == 0 {
		c.Text.CTAGapPx = 120
	}
	if c.Text.TitleColor == "" {
		c.Text.TitleColor = "#d23232"
	}
	if c.Text.BodyColor == "" {
		c.Text.BodyColor = "#dcdcdc"
	}
	if c.Text.CTAColor == "" {
		c.Text.CTAColor = "#d23232"
	}
	if c.Scroll.SpeedPxPerSec == 0 {
		c.Scroll.SpeedPxPerSec = 70
	}
	if c.Scroll.MaxDurationSec == 0 {
		c.Scroll.MaxDurationSec = 180
	}
	if c.Background.ScrimOpacity == 0 {
		c.Background.ScrimOpacity = 0.55
	}
	if c.Audio.MusicVolume == 0 {
		c.Audio.MusicVolume = 0.12
	}
	if c.Audio.Voice == "" {
		c.Audio.Voice = "en-US-ChristopherNeural"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Paths.Backgrounds == "" {
		c.Paths.Backgrounds = "assets/backgrounds"
	}
	if c.Paths.Music == "" {
		c.Paths.Music = "assets/music"
	}
	if c.Paths.Stories == "" {
		c.Paths.Stories = "data/stories.json"
	}
	if c.Paths.UsedStoriesLog == "" {
		c.Paths.UsedStoriesLog = "data/used_stories.json"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
}

func (c *Config) validate() error {
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		return fmt.Errorf("video dimensions must be positive, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Scroll.MaxDurationSec <= 0 {
		return fmt.Errorf("scroll.max_duration_sec must be positive, got %.1f", c.Scroll.MaxDurationSec)
	}
	if c.Audio.MusicVolume < 0 || c.Audio.MusicVolume > 1 {
		return fmt.Errorf("audio.music_volume must be in [0,1], got %.2f", c.Audio.MusicVolume)
	}
	if c.Background.ScrimOpacity < 0 || c.Background.ScrimOpacity > 1 {
		return fmt.Errorf("background.scrim_opacity must be in [0,1], got %.2f", c.Background.ScrimOpacity)
	}
	return nil
}
