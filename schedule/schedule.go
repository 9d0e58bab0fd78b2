// Package schedule resolves scroll speed and clip duration from the
// layout's scroll range, the narration length, and the platform's
// maximum clip duration.
package schedule

import "math"

// Mode records which configuration branch produced a plan.
type Mode int

const (
	// ModeNarration derives speed from a known narration duration.
	ModeNarration Mode = iota
	// ModeSpeed derives duration from a configured scroll speed.
	ModeSpeed
)

func (m Mode) String() string {
	if m == ModeNarration {
		return "narration"
	}
	return "speed"
}

// ScrollPlan is a resolved schedule. In every plan
// SpeedPxPerSec * DurationSec == MaxScrollPx within floating tolerance.
type ScrollPlan struct {
	SpeedPxPerSec float64
	DurationSec   float64
	MaxScrollPx   int
	Mode          Mode
}

// PlanFromNarration times the scroll to a narration of narrationSec
// seconds. Narration longer than maxDurSec is treated as truncated to
// maxDurSec before the speed is derived. Zero scroll range or zero
// narration never divides by zero: the plan degrades to a static clip.
func PlanFromNarration(maxScrollPx int, narrationSec, maxDurSec float64) ScrollPlan {
	if maxScrollPx < 0 {
		maxScrollPx = 0
	}
	duration := narrationSec
	if maxDurSec > 0 && duration > maxDurSec {
		duration = maxDurSec
	}
	if duration < 0 {
		duration = 0
	}

	plan := ScrollPlan{MaxScrollPx: maxScrollPx, DurationSec: duration, Mode: ModeNarration}
	if maxScrollPx == 0 || duration == 0 {
		// Static clip: the first frame repeats for the whole duration.
		return plan
	}
	plan.SpeedPxPerSec = float64(maxScrollPx) / duration
	return plan
}

// PlanFromSpeed schedules at the configured speed, raising it to
// ceil(maxScrollPx/maxDurSec) when the configured speed would overrun
// the duration ceiling. The speed is only ever raised, never lowered:
// a fast configured speed on a short body finishes early.
func PlanFromSpeed(maxScrollPx int, speedPxPerSec, maxDurSec float64) ScrollPlan {
	if maxScrollPx < 0 {
		maxScrollPx = 0
	}
	plan := ScrollPlan{MaxScrollPx: maxScrollPx, SpeedPxPerSec: speedPxPerSec, Mode: ModeSpeed}
	if maxScrollPx == 0 {
		plan.DurationSec = 0
		return plan
	}

	if maxDurSec > 0 {
		minSpeed := float64(maxScrollPx) / maxDurSec
		if plan.SpeedPxPerSec < minSpeed {
			plan.SpeedPxPerSec = math.Ceil(minSpeed)
		}
	}
	if plan.SpeedPxPerSec <= 0 {
		// No usable speed and no ceiling to derive one from.
		plan.SpeedPxPerSec = 0
		plan.DurationSec = 0
		return plan
	}

	plan.DurationSec = float64(maxScrollPx) / plan.SpeedPxPerSec
	if maxDurSec > 0 && plan.DurationSec > maxDurSec {
		plan.DurationSec = maxDurSec
	}
	return plan
}

// OffsetAt maps elapsed time to a scroll offset, clamped to the scroll
// range. Pure function of t.
func (p ScrollPlan) OffsetAt(t float64) int {
	if t < 0 {
		t = 0
	}
	off := int(math.Round(t * p.SpeedPxPerSec))
	if off > p.MaxScrollPx {
		off = p.MaxScrollPx
	}
	return off
}
