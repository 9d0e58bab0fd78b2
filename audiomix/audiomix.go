// Package audiomix assembles the clip's audio track: background music
// looped to the clip duration and attenuated under the narration, or
// either track alone, or silence. All mixing happens on 16-bit PCM.
package audiomix

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth = 16
	maxInt16 = 32767
	minInt16 = -32768
)

// LoadWAV decodes a WAV file into a full PCM buffer.
func LoadWAV(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav %s: %w", path, err)
	}
	return buf, nil
}

// SaveWAV writes a PCM buffer as a 16-bit WAV file.
func SaveWAV(path string, buf *audio.IntBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav %s: %w", path, err)
	}
	return enc.Close()
}

// Silence returns an all-zero buffer of the given duration.
func Silence(seconds float64, sampleRate, channels int) *audio.IntBuffer {
	n := sampleCount(seconds, sampleRate, channels)
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, n),
		SourceBitDepth: bitDepth,
	}
}

// LoopToDuration repeats the buffer whole until it covers the target
// duration, then trims to exactly that duration. A buffer already long
// enough is only trimmed.
func LoopToDuration(buf *audio.IntBuffer, seconds float64) *audio.IntBuffer {
	target := sampleCount(seconds, buf.Format.SampleRate, buf.Format.NumChannels)
	out := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: buf.Format.NumChannels, SampleRate: buf.Format.SampleRate},
		Data:           make([]int, target),
		SourceBitDepth: bitDepth,
	}
	if len(buf.Data) == 0 {
		return out
	}
	for i := 0; i < target; i += len(buf.Data) {
		copy(out.Data[i:], buf.Data)
	}
	return out
}

// Attenuate scales every sample by volume (0..1), returning a new
// buffer. The input is left untouched.
func Attenuate(buf *audio.IntBuffer, volume float64) *audio.IntBuffer {
	out := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: buf.Format.NumChannels, SampleRate: buf.Format.SampleRate},
		Data:           make([]int, len(buf.Data)),
		SourceBitDepth: bitDepth,
	}
	for i, s := range buf.Data {
		out.Data[i] = clip(int(math.Round(float64(s) * volume)))
	}
	return out
}

// Mix builds the final track for a clip of the given duration. Music is
// looped to the duration and attenuated to musicVolume before being
// layered under the narration; narration is never volume-adjusted. With
// no narration the attenuated music plays alone; with neither input the
// result is silence. Both buffers may be nil; non-nil buffers must share
// one sample format.
func Mix(narration, music *audio.IntBuffer, seconds float64, musicVolume float64, sampleRate, channels int) (*audio.IntBuffer, error) {
	if narration != nil {
		if err := checkFormat(narration, sampleRate, channels); err != nil {
			return nil, fmt.Errorf("narration: %w", err)
		}
	}
	if music != nil {
		if err := checkFormat(music, sampleRate, channels); err != nil {
			return nil, fmt.Errorf("music: %w", err)
		}
	}

	out := Silence(seconds, sampleRate, channels)

	if music != nil && len(music.Data) > 0 {
		bed := Attenuate(LoopToDuration(music, seconds), musicVolume)
		copy(out.Data, bed.Data)
	}
	if narration != nil {
		for i, s := range narration.Data {
			if i >= len(out.Data) {
				break
			}
			out.Data[i] = clip(out.Data[i] + s)
		}
	}
	return out, nil
}

// Duration reports the buffer's length in seconds.
func Duration(buf *audio.IntBuffer) float64 {
	if buf.Format.SampleRate == 0 || buf.Format.NumChannels == 0 {
		return 0
	}
	frames := len(buf.Data) / buf.Format.NumChannels
	return float64(frames) / float64(buf.Format.SampleRate)
}

func checkFormat(buf *audio.IntBuffer, sampleRate, channels int) error {
	if buf.Format.SampleRate != sampleRate || buf.Format.NumChannels != channels {
		return fmt.Errorf("format %dHz/%dch does not match target %dHz/%dch",
			buf.Format.SampleRate, buf.Format.NumChannels, sampleRate, channels)
	}
	return nil
}

func sampleCount(seconds float64, sampleRate, channels int) int {
	if seconds < 0 {
		seconds = 0
	}
	return int(math.Round(seconds*float64(sampleRate))) * channels
}

func clip(s int) int {
	if s > maxInt16 {
		return maxInt16
	}
	if s < minInt16 {
		return minInt16
	}
	return s
}
