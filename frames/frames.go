// Package frames is the public entry point of the compositor: a pure
// mapping from elapsed time to output frame, plus a parallel producer
// that streams raw frames to an encoder in order.
package frames

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"storyscroll/compose"
	"storyscroll/schedule"
)

// Source renders frames as a pure function of elapsed time. Both the
// compositor buffers and the plan are read-only, so a Source is safe
// for concurrent use and frames can be requested out of order.
type Source struct {
	comp *compose.Compositor
	plan schedule.ScrollPlan
}

// New pairs a compositor with a resolved scroll plan.
func New(comp *compose.Compositor, plan schedule.ScrollPlan) *Source {
	return &Source{comp: comp, plan: plan}
}

// Plan returns the resolved scroll plan.
func (s *Source) Plan() schedule.ScrollPlan {
	return s.plan
}

// Render returns the frame for elapsed time t seconds. Deterministic
// and side-effect-free; times past the end repeat the final frame.
func (s *Source) Render(t float64) *image.RGBA {
	return s.comp.Frame(s.plan.OffsetAt(t))
}

// FrameCount is the number of frames in the clip at the given rate.
// A zero-duration plan still yields one frame so degenerate content
// produces a static clip instead of nothing.
func (s *Source) FrameCount(fps int) int {
	n := int(math.Ceil(s.plan.DurationSec * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// Produce renders every frame and writes raw RGBA bytes to w in frame
// order. Rendering is parallel across a batch of workers; writes stay
// sequential so the consumer sees frames in time order.
func (s *Source) Produce(ctx context.Context, fps int, w io.Writer) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	total := s.FrameCount(fps)
	workers := runtime.NumCPU()
	if workers > total {
		workers = total
	}

	batch := make([]*image.RGBA, workers)
	for start := 0; start < total; start += workers {
		n := workers
		if start+n > total {
			n = total - start
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				t := float64(start+i) / float64(fps)
				batch[i] = s.Render(t)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for i := 0; i < n; i++ {
			if _, err := w.Write(batch[i].Pix); err != nil {
				return fmt.Errorf("write frame %d: %w", start+i, err)
			}
			batch[i] = nil
		}
	}
	return nil
}
