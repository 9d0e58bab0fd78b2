package audiomix

import (
	"math"
	"testing"

	"github.com/go-audio/audio"
)

const (
	testRate     = 44100
	testChannels = 2
)

func buffer(data []int) *audio.IntBuffer {
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: testChannels, SampleRate: testRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

func constBuffer(value int, seconds float64) *audio.IntBuffer {
	n := int(math.Round(seconds*testRate)) * testChannels
	data := make([]int, n)
	for i := range data {
		data[i] = value
	}
	return buffer(data)
}

func TestLoopToDuration_ShortTrackRepeats(t *testing.T) {
	// 0.5s ramp looped to 1.6s: the ramp must restart at each repeat.
	src := buffer(make([]int, int(0.5*testRate)*testChannels))
	for i := range src.Data {
		src.Data[i] = i % 1000
	}

	out := LoopToDuration(src, 1.6)
	if got := Duration(out); math.Abs(got-1.6) > 1e-6 {
		t.Errorf("looped duration = %.4f, want 1.6", got)
	}
	period := len(src.Data)
	for _, i := range []int{0, 17, period + 17, 2*period + 17} {
		if out.Data[i] != src.Data[i%period] {
			t.Errorf("sample %d = %d, want %d (whole-track repeat)", i, out.Data[i], src.Data[i%period])
		}
	}
}

func TestLoopToDuration_LongTrackTrimmed(t *testing.T) {
	src := constBuffer(100, 10)
	out := LoopToDuration(src, 3)
	if got := Duration(out); math.Abs(got-3) > 1e-6 {
		t.Errorf("trimmed duration = %.4f, want 3", got)
	}
}

func TestAttenuate(t *testing.T) {
	src := buffer([]int{1000, -1000, 0, 500})
	out := Attenuate(src, 0.12)
	want := []int{120, -120, 0, 60}
	for i := range want {
		if out.Data[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, out.Data[i], want[i])
		}
	}
	if src.Data[0] != 1000 {
		t.Error("Attenuate mutated its input")
	}
}

func TestMix_MusicUnderNarration(t *testing.T) {
	narration := constBuffer(1000, 2)
	music := constBuffer(500, 0.5) // shorter than the clip: must loop

	out, err := Mix(narration, music, 2, 0.1, testRate, testChannels)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	if got := Duration(out); math.Abs(got-2) > 1e-6 {
		t.Errorf("mixed duration = %.4f, want 2", got)
	}
	// narration 1000 (never scaled) + music 500*0.1 = 1050, everywhere.
	for _, i := range []int{0, len(out.Data) / 2, len(out.Data) - 1} {
		if out.Data[i] != 1050 {
			t.Errorf("sample %d = %d, want 1050", i, out.Data[i])
		}
	}
}

func TestMix_MusicAloneIsAttenuated(t *testing.T) {
	music := constBuffer(1000, 1)
	out, err := Mix(nil, music, 1, 0.12, testRate, testChannels)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	if out.Data[0] != 120 {
		t.Errorf("music-only sample = %d, want 120", out.Data[0])
	}
}

func TestMix_NarrationAlone(t *testing.T) {
	narration := constBuffer(700, 1)
	out, err := Mix(narration, nil, 1, 0.12, testRate, testChannels)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	if out.Data[0] != 700 {
		t.Errorf("narration-only sample = %d, want 700 (unscaled)", out.Data[0])
	}
}

func TestMix_NoInputsIsSilence(t *testing.T) {
	out, err := Mix(nil, nil, 1.5, 0.12, testRate, testChannels)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	if got := Duration(out); math.Abs(got-1.5) > 1e-6 {
		t.Errorf("silence duration = %.4f, want 1.5", got)
	}
	for i, s := range out.Data {
		if s != 0 {
			t.Fatalf("sample %d = %d, want 0", i, s)
		}
	}
}

func TestMix_ClipsToInt16(t *testing.T) {
	narration := constBuffer(32000, 0.1)
	music := constBuffer(32000, 0.1)
	out, err := Mix(narration, music, 0.1, 1.0, testRate, testChannels)
	if err != nil {
		t.Fatalf("Mix: %v", err)
	}
	for i, s := range out.Data {
		if s > 32767 || s < -32768 {
			t.Fatalf("sample %d = %d escapes int16 range", i, s)
		}
	}
}

func TestMix_RejectsFormatMismatch(t *testing.T) {
	bad := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: 22050},
		Data:   make([]int, 100),
	}
	if _, err := Mix(bad, nil, 1, 0.12, testRate, testChannels); err == nil {
		t.Error("expected error for mismatched narration format")
	}
}
