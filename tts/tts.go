// Package tts drives the external narration collaborators: a TTS
// engine, an optional reverb pass, and ffmpeg/ffprobe for format
// conversion and duration probing. The core consumes the result as an
// opaque audio asset with a known duration.
package tts

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"storyscroll/config"
)

// Synthesizer generates narration audio for a story.
type Synthesizer struct {
	cfg *config.Config
}

// New creates a new Synthesizer.
func New(cfg *config.Config) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// Narrate synthesizes text to a WAV file in outputDir and returns its
// path and measured duration in seconds. The pipeline is TTS → optional
// reverb → WAV conversion at the mixer's sample format.
func (s *Synthesizer) Narrate(ctx context.Context, text, outputDir string) (string, float64, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create audio dir: %w", err)
	}

	rawFile := filepath.Join(outputDir, "narration_raw.mp3")
	if err := s.synthesize(ctx, text, rawFile); err != nil {
		return "", 0, fmt.Errorf("tts: %w", err)
	}

	current := rawFile
	if s.cfg.Audio.Reverb {
		processed := filepath.Join(outputDir, "narration_reverb.mp3")
		if err := applyReverb(ctx, current, processed); err != nil {
			log.Printf("[tts] Warning: reverb failed: %v — using dry narration", err)
		} else {
			current = processed
		}
	}

	wavFile := filepath.Join(outputDir, "narration.wav")
	if err := ToWAV(ctx, current, wavFile, s.cfg.Audio.SampleRate, 2); err != nil {
		return "", 0, fmt.Errorf("convert narration to wav: %w", err)
	}

	dur, err := ProbeDuration(ctx, wavFile)
	if err != nil {
		return "", 0, fmt.Errorf("probe narration duration: %w", err)
	}

	log.Printf("[tts] Narration ready: %.1fs (%s)", dur, filepath.Base(wavFile))
	return wavFile, dur, nil
}

// synthesize runs the configured TTS engine. TTS_COMMAND overrides the
// default edge-tts invocation; either way the engine writes outFile.
func (s *Synthesizer) synthesize(ctx context.Context, text, outFile string) error {
	ttsCmd := strings.TrimSpace(os.Getenv("TTS_COMMAND"))

	var name string
	var args []string
	switch {
	case ttsCmd == "":
		if _, err := exec.LookPath("edge-tts"); err != nil {
			return fmt.Errorf("no TTS engine found. Set TTS_COMMAND in .env or install edge-tts: pip install edge-tts")
		}
		name = "edge-tts"
		args = []string{"--voice", s.cfg.Audio.Voice, "--text", text, "--write-media", outFile}
	case strings.HasSuffix(ttsCmd, ".py"):
		name = "python3"
		args = []string{ttsCmd, "--text", text, "--output", outFile}
	default:
		name = ttsCmd
		args = []string{"--text", text, "--output", outFile}
	}

	// Retry up to 3 times: edge-tts talks to a remote service.
	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		err = cmd.Run()
		if err == nil {
			return nil
		}
		log.Printf("[tts] TTS attempt %d failed: %v — retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return err
}

// ListVoices streams the engine's voice catalog to w. Only edge-tts
// supports this; custom TTS_COMMAND engines are not queried.
func ListVoices(ctx context.Context, w io.Writer) error {
	if _, err := exec.LookPath("edge-tts"); err != nil {
		return fmt.Errorf("edge-tts not found. Install it: pip install edge-tts")
	}
	cmd := exec.CommandContext(ctx, "edge-tts", "--list-voices")
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("edge-tts --list-voices: %w", err)
	}
	return nil
}

// applyReverb adds a subtle echo. The filter preserves duration, which
// the scheduler depends on.
func applyReverb(ctx context.Context, inFile, outFile string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inFile,
		"-af", "aecho=0.8:0.88:60:0.25",
		outFile,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg reverb: %w: %s", err, tail(out))
	}
	return nil
}

// ToWAV converts any ffmpeg-readable audio file to 16-bit PCM WAV at
// the given sample rate and channel count.
func ToWAV(ctx context.Context, inFile, outFile string, sampleRate, channels int) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", inFile,
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-c:a", "pcm_s16le",
		outFile,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg wav convert: %w: %s", err, tail(out))
	}
	return nil
}

// ProbeDuration asks ffprobe for a file's duration in seconds.
func ProbeDuration(ctx context.Context, audioFile string) (float64, error) {
	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

func tail(out []byte) string {
	const n = 300
	if len(out) <= n {
		return string(out)
	}
	return string(out[len(out)-n:])
}
