package types

// Story holds a scraped story ready for rendering.
type Story struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Body        string `json:"body"`
	Source      string `json:"source"`
	SourceURL   string `json:"source_url"`
	Score       int    `json:"score"`
	WordCount   int    `json:"word_count"`
	PublishedAt string `json:"published_at"`
}

// PipelineState tracks the full state of one render run.
type PipelineState struct {
	RunID       string  `json:"run_id"`
	StartedAt   string  `json:"started_at"`
	CompletedAt string  `json:"completed_at"`
	Story       *Story  `json:"story"`
	AudioFile   string  `json:"audio_file"`
	VideoFile   string  `json:"video_file"`
	DurationSec float64 `json:"duration_sec"`
	YouTubeID   string  `json:"youtube_id,omitempty"`
	YouTubeURL  string  `json:"youtube_url,omitempty"`
	Error       string  `json:"error,omitempty"`
}
