package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"storyscroll/assets"
	"storyscroll/audiomix"
	"storyscroll/background"
	"storyscroll/compose"
	"storyscroll/config"
	"storyscroll/encode"
	"storyscroll/frames"
	"storyscroll/markup"
	"storyscroll/research"
	"storyscroll/schedule"
	"storyscroll/textlayout"
	"storyscroll/tts"
	"storyscroll/types"
	"storyscroll/upload"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one story from the pool into a video",
	RunE:  runRender,
}

var (
	storyIndex  int
	maxWords    int
	musicPath   string
	musicVolume float64
	noNarration bool
	doUpload    bool
	outPath     string
	seed        int64
)

func init() {
	renderCmd.Flags().IntVarP(&storyIndex, "index", "i", 0, "story index in the pool")
	renderCmd.Flags().IntVar(&maxWords, "max-words", 0, "trim story body to this many words")
	renderCmd.Flags().StringVar(&musicPath, "music", "", "background music file (default: random from music dir)")
	renderCmd.Flags().Float64Var(&musicVolume, "music-volume", 0, "music volume 0.0-1.0 (default: from config)")
	renderCmd.Flags().BoolVar(&noNarration, "no-narration", false, "skip narration; scroll at the configured speed")
	renderCmd.Flags().BoolVar(&doUpload, "upload", false, "upload to YouTube after rendering")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "output mp4 path")
	renderCmd.Flags().Int64Var(&seed, "seed", 0, "asset selection seed (0: time-based)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if musicVolume > 0 {
		cfg.Audio.MusicVolume = musicVolume
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	log.Printf("🎬 Storyscroll render starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     runID,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(runDir, "pipeline_state.json"), state)
	}()

	err = renderStory(ctx, cfg, runDir, state)
	if err != nil {
		state.Error = err.Error()
		return err
	}
	log.Printf("✅ Render complete! Video: %s", state.VideoFile)
	return nil
}

func renderStory(ctx context.Context, cfg *config.Config, runDir string, state *types.PipelineState) error {
	// ─────────────────────────────────────────────
	// STAGE 1: Story selection
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Story ━━━")
	stories, err := research.LoadStories(cfg.Paths.Stories)
	if err != nil {
		return fmt.Errorf("load story pool (run `storyscroll scrape` first): %w", err)
	}
	if storyIndex < 0 || storyIndex >= len(stories) {
		return fmt.Errorf("story index %d out of range (%d stories available)", storyIndex, len(stories))
	}
	story := stories[storyIndex]
	state.Story = story

	body := story.Body
	if maxWords > 0 {
		if words := strings.Fields(body); len(words) > maxWords {
			body = strings.Join(words[:maxWords], " ") + "..."
			log.Printf("[story] Trimmed body to %d words", maxWords)
		}
	}
	log.Printf("[story] %q by %s (%d words)", story.Title, story.Author, len(strings.Fields(body)))

	// ─────────────────────────────────────────────
	// STAGE 2: Layout and text layer
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 2: Layout ━━━")
	titleFonts := textlayout.LoadFontSet(cfg.Text.TitleFontSize, fontPaths(cfg))
	bodyFonts := textlayout.LoadFontSet(cfg.Text.BodyFontSize, fontPaths(cfg))

	doc := textlayout.Layout(story.Title, story.Author, body, titleFonts, bodyFonts, textlayout.Params{
		FrameWidth:       cfg.Video.Width,
		FrameHeight:      cfg.Video.Height,
		PaddingX:         cfg.Text.PaddingX,
		LineSpacing:      cfg.Text.LineSpacing,
		TitleAuthorGapPx: cfg.Text.TitleAuthorGapPx,
		ParagraphGapPx:   cfg.Text.ParagraphGapPx,
		CTAGapPx:         cfg.Text.CTAGapPx,
		CTAText:          cfg.Text.CTAText,
	})
	layer := textlayout.RenderLayer(doc, titleFonts, bodyFonts, textlayout.Colors{
		Title: cfg.Text.TitleColor,
		Body:  cfg.Text.BodyColor,
		CTA:   cfg.Text.CTAColor,
	})
	log.Printf("[layout] Canvas %dx%d, scroll range %dpx", cfg.Video.Width, doc.TotalHeight, doc.MaxScrollPx())

	// ─────────────────────────────────────────────
	// STAGE 3: Background
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Background ━━━")
	rng := rand.New(rand.NewSource(pickSeed()))
	picker := assets.NewPicker(cfg.Paths.Backgrounds, cfg.Paths.Music, rng)

	bgPath, err := picker.Background()
	if err != nil {
		return err
	}
	photo, err := background.Load(bgPath)
	if err != nil {
		return err
	}
	bg, err := background.Prepare(photo, background.Options{
		FrameWidth:      cfg.Video.Width,
		FrameHeight:     cfg.Video.Height,
		WatermarkCropPx: cfg.Background.WatermarkCropPx,
		ScrimOpacity:    cfg.Background.ScrimOpacity,
	})
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────
	// STAGE 4: Narration
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Narration ━━━")
	var narrationWAV string
	var narrationSec float64
	if noNarration {
		log.Println("[tts] Narration disabled — using speed-driven scroll")
	} else {
		narrationText := story.Title + ". " + plainText(body)
		synth := tts.New(cfg)
		narrationWAV, narrationSec, err = synth.Narrate(ctx, narrationText, filepath.Join(runDir, "audio"))
		if err != nil {
			return err
		}
		state.AudioFile = narrationWAV
	}

	// ─────────────────────────────────────────────
	// STAGE 5: Scroll plan
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 5: Scroll plan ━━━")
	var plan schedule.ScrollPlan
	if noNarration {
		plan = schedule.PlanFromSpeed(doc.MaxScrollPx(), cfg.Scroll.SpeedPxPerSec, cfg.Scroll.MaxDurationSec)
	} else {
		plan = schedule.PlanFromNarration(doc.MaxScrollPx(), narrationSec, cfg.Scroll.MaxDurationSec)
	}
	state.DurationSec = plan.DurationSec
	log.Printf("[plan] Mode %s: %.1f px/s for %.1fs over %dpx", plan.Mode, plan.SpeedPxPerSec, plan.DurationSec, plan.MaxScrollPx)

	// ─────────────────────────────────────────────
	// STAGE 6: Audio mix
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 6: Audio mix ━━━")
	mixedWAV, err := buildAudio(ctx, cfg, picker, runDir, narrationWAV, plan.DurationSec)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────
	// STAGE 7: Encode
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 7: Encode ━━━")
	comp, err := compose.New(bg, layer)
	if err != nil {
		return fmt.Errorf("compositor: %w", err)
	}
	src := frames.New(comp, plan)

	finalVideo := outPath
	if finalVideo == "" {
		finalVideo = filepath.Join(runDir, safeFilename(story.Title)+".mp4")
	}
	if err := encode.WriteVideo(ctx, src, encode.Options{
		Width:     cfg.Video.Width,
		Height:    cfg.Video.Height,
		FPS:       cfg.Video.FPS,
		AudioFile: mixedWAV,
		OutFile:   finalVideo,
	}); err != nil {
		return err
	}
	state.VideoFile = finalVideo

	// ─────────────────────────────────────────────
	// STAGE 8: Upload
	// ─────────────────────────────────────────────
	if doUpload || cfg.Upload.Enabled {
		log.Println("\n━━━ STAGE 8: Upload ━━━")
		meta := upload.BuildMetadata(story)
		uploader := upload.New(cfg)
		videoID, videoURL, err := uploader.Run(ctx, finalVideo, meta)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		state.YouTubeID = videoID
		state.YouTubeURL = videoURL
		_ = upload.LogUpload(videoID, videoURL, finalVideo, cfg.Paths.Logs, meta)
	}

	if err := research.MarkUsedID(cfg.Paths.UsedStoriesLog, story.ID); err != nil {
		log.Printf("[story] Warning: could not update used-stories log: %v", err)
	}
	return nil
}

// buildAudio mixes narration and looped music into one WAV covering the
// clip duration. Music failures degrade to narration-only.
func buildAudio(ctx context.Context, cfg *config.Config, picker *assets.Picker, runDir, narrationWAV string, durationSec float64) (string, error) {
	audioDir := filepath.Join(runDir, "audio")
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return "", err
	}

	var narration *audio.IntBuffer
	if narrationWAV != "" {
		var err error
		narration, err = audiomix.LoadWAV(narrationWAV)
		if err != nil {
			return "", fmt.Errorf("load narration: %w", err)
		}
	}

	var music *audio.IntBuffer
	track := musicPath
	if track == "" {
		track, _ = picker.Music()
	}
	if track != "" {
		musicWAV := filepath.Join(audioDir, "music.wav")
		if err := tts.ToWAV(ctx, track, musicWAV, cfg.Audio.SampleRate, 2); err != nil {
			log.Printf("[audio] Warning: music convert failed: %v — continuing without music", err)
		} else if buf, err := audiomix.LoadWAV(musicWAV); err != nil {
			log.Printf("[audio] Warning: music load failed: %v — continuing without music", err)
		} else {
			music = buf
		}
	}

	mixed, err := audiomix.Mix(narration, music, durationSec, cfg.Audio.MusicVolume, cfg.Audio.SampleRate, 2)
	if err != nil {
		return "", fmt.Errorf("mix audio: %w", err)
	}

	mixedWAV := filepath.Join(audioDir, "audio_final.wav")
	if err := audiomix.SaveWAV(mixedWAV, mixed); err != nil {
		return "", err
	}
	log.Printf("[audio] ✅ Mixed track: %.1fs → %s", audiomix.Duration(mixed), mixedWAV)
	return mixedWAV, nil
}

// Title and body share the configured families at different sizes.
func fontPaths(cfg *config.Config) textlayout.FontPaths {
	return textlayout.FontPaths{
		Regular:    nonEmpty(cfg.Text.FontRegular),
		Bold:       nonEmpty(cfg.Text.FontBold),
		Italic:     nonEmpty(cfg.Text.FontItalic),
		BoldItalic: nonEmpty(cfg.Text.FontBoldItalic),
	}
}

func nonEmpty(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}

func plainText(body string) string {
	var parts []string
	for _, para := range markup.SplitParagraphs(body) {
		parts = append(parts, markup.Flatten(markup.Parse(para)))
	}
	return strings.Join(parts, " ")
}

func pickSeed() int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func safeFilename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune('_')
		}
	}
	s := strings.Trim(b.String(), "_")
	if len(s) > 40 {
		s = s[:40]
	}
	if s == "" {
		s = "story"
	}
	return s
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
