// Package encode hands the composited frames and mixed audio to the
// external video encoder. ffmpeg reads raw RGBA frames on stdin and
// muxes the WAV track into the final MP4.
package encode

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"storyscroll/frames"
)

// Options describe one encode job.
type Options struct {
	Width     int
	Height    int
	FPS       int
	AudioFile string // WAV path; empty encodes a silent video
	OutFile   string
}

// WriteVideo streams every frame from src into ffmpeg and blocks until
// the encoder finishes.
func WriteVideo(ctx context.Context, src *frames.Source, opts Options) error {
	log.Printf("[encode] Encoding %d frames at %dfps → %s", src.FrameCount(opts.FPS), opts.FPS, opts.OutFile)

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", fmt.Sprintf("%d", opts.FPS),
		"-i", "-",
	}
	if opts.AudioFile != "" {
		args = append(args, "-i", opts.AudioFile)
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
	)
	if opts.AudioFile != "" {
		args = append(args,
			"-c:a", "aac",
			"-b:a", "192k",
			"-shortest",
		)
	}
	args = append(args, "-movflags", "+faststart", opts.OutFile)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	produceErr := src.Produce(ctx, opts.FPS, stdin)
	if closeErr := stdin.Close(); produceErr == nil {
		produceErr = closeErr
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	if produceErr != nil {
		return fmt.Errorf("produce frames: %w", produceErr)
	}

	log.Printf("[encode] ✅ Video ready: %s", opts.OutFile)
	return nil
}
