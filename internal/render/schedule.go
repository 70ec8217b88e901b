package render

import (
	"math"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// ScheduledSegment is one caption with its frame allocation computed up
// front. Frame emission is driven entirely by these counts; nothing polls a
// speech engine mid-render.
type ScheduledSegment struct {
	Text   string
	Frames int
}

// BuildSchedule converts caption segments into frame budgets. Each segment's
// duration starts from its word-count estimate; when real narration audio
// reports a duration, the estimates are scaled so the caption track spans the
// audio exactly. Every segment gets at least one frame.
func BuildSchedule(segments []entities.CaptionSegment, audioDurationSeconds float64, fps int) []ScheduledSegment {
	if len(segments) == 0 || fps <= 0 {
		return nil
	}

	totalEstimate := 0.0
	for _, s := range segments {
		totalEstimate += s.Seconds
	}

	scale := 1.0
	if audioDurationSeconds > 0 && totalEstimate > 0 {
		scale = audioDurationSeconds / totalEstimate
	}

	out := make([]ScheduledSegment, 0, len(segments))
	for _, s := range segments {
		frames := int(math.Round(s.Seconds * scale * float64(fps)))
		if frames < 1 {
			frames = 1
		}
		out = append(out, ScheduledSegment{Text: s.Text, Frames: frames})
	}
	return out
}

// TotalFrames sums the schedule's frame budget
func TotalFrames(schedule []ScheduledSegment) int {
	total := 0
	for _, s := range schedule {
		total += s.Frames
	}
	return total
}
