package frames

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"storyscroll/compose"
	"storyscroll/schedule"
)

func testSource(t *testing.T, layerH int, plan schedule.ScrollPlan) *Source {
	t.Helper()
	bg := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			bg.SetRGBA(x, y, color.RGBA{10, 10, 10, 255})
		}
	}
	layer := image.NewRGBA(image.Rect(0, 0, 32, layerH))
	// A marker row per scroll position makes frames distinguishable.
	for y := 0; y < layerH; y += 10 {
		layer.SetRGBA(0, y, color.RGBA{255, 255, 255, 255})
	}
	comp, err := compose.New(bg, layer)
	if err != nil {
		t.Fatalf("compose.New: %v", err)
	}
	return New(comp, plan)
}

func TestRender_Deterministic(t *testing.T) {
	src := testSource(t, 200, schedule.PlanFromNarration(176, 10, 180))
	a := src.Render(3.7)
	b := src.Render(3.7)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("Render(t) is not deterministic")
	}
}

func TestRender_ClampsPastEnd(t *testing.T) {
	src := testSource(t, 200, schedule.PlanFromNarration(176, 10, 180))
	end := src.Render(10)
	past := src.Render(500)
	if !bytes.Equal(end.Pix, past.Pix) {
		t.Error("Render past the end differs from the final frame")
	}
}

func TestRender_StaticPlanRepeatsFirstFrame(t *testing.T) {
	src := testSource(t, 24, schedule.PlanFromNarration(0, 30, 180))
	first := src.Render(0)
	later := src.Render(15)
	if !bytes.Equal(first.Pix, later.Pix) {
		t.Error("static plan did not repeat the first frame")
	}
}

func TestFrameCount(t *testing.T) {
	cases := []struct {
		duration float64
		fps      int
		want     int
	}{
		{10, 30, 300},
		{0.5, 30, 15},
		{0.01, 30, 1},
		{0, 30, 1}, // degenerate plan still yields one frame
	}
	for _, c := range cases {
		plan := schedule.ScrollPlan{DurationSec: c.duration}
		src := testSource(t, 100, plan)
		if got := src.FrameCount(c.fps); got != c.want {
			t.Errorf("FrameCount(dur=%.2f, fps=%d) = %d, want %d", c.duration, c.fps, got, c.want)
		}
	}
}

func TestProduce_FrameOrderMatchesSequentialRender(t *testing.T) {
	plan := schedule.PlanFromNarration(176, 2, 180)
	src := testSource(t, 200, plan)
	fps := 10

	var buf bytes.Buffer
	if err := src.Produce(context.Background(), fps, &buf); err != nil {
		t.Fatalf("Produce: %v", err)
	}

	frameBytes := 32 * 24 * 4
	total := src.FrameCount(fps)
	if buf.Len() != total*frameBytes {
		t.Fatalf("produced %d bytes, want %d (%d frames)", buf.Len(), total*frameBytes, total)
	}
	for i := 0; i < total; i++ {
		want := src.Render(float64(i) / float64(fps))
		got := buf.Bytes()[i*frameBytes : (i+1)*frameBytes]
		if !bytes.Equal(got, want.Pix) {
			t.Fatalf("frame %d from Produce differs from sequential Render", i)
		}
	}
}

func TestProduce_Cancelled(t *testing.T) {
	src := testSource(t, 2000, schedule.PlanFromNarration(1976, 60, 180))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := src.Produce(ctx, 30, &buf); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestProduce_RejectsBadFPS(t *testing.T) {
	src := testSource(t, 100, schedule.ScrollPlan{DurationSec: 1})
	if err := src.Produce(context.Background(), 0, &bytes.Buffer{}); err == nil {
		t.Error("expected error for fps <= 0")
	}
}
