package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// Capture drives the per-segment render loop against an encoder. Frames for
// a segment are emitted strictly after the previous segment's frames and in
// the exact order drawn; the encoder receives them as they are composed.
type Capture struct {
	composer Composer
	encoder  Encoder
	logger   *zap.Logger
}

// NewCapture wires a composer to an encoder for one session
func NewCapture(composer Composer, encoder Encoder, logger *zap.Logger) *Capture {
	return &Capture{composer: composer, encoder: encoder, logger: logger}
}

// Result describes a finished capture run
type Result struct {
	Video     *EncodedVideo
	Truncated bool
	FramesOut int
}

// Run renders the full schedule, enforcing the tier's duration cap as a hard
// frame budget (fps × maxDuration). Hitting the budget mid-segment stops
// rendering immediately and finalizes whatever was drawn: truncation, not
// failure. Encoder errors abort the run and propagate.
func (c *Capture) Run(ctx context.Context, bg *Background, schedule []ScheduledSegment, opts entities.RenderOptions, maxDurationSeconds int) (*Result, error) {
	if err := c.encoder.Start(ctx, opts, nil); err != nil {
		return nil, fmt.Errorf("encoder start: %w", err)
	}
	return c.run(ctx, bg, schedule, opts, maxDurationSeconds)
}

// RunWithNarration is Run with an audio track to multiplex
func (c *Capture) RunWithNarration(ctx context.Context, bg *Background, schedule []ScheduledSegment, opts entities.RenderOptions, maxDurationSeconds int, narration *entities.NarrationAudio) (*Result, error) {
	if err := c.encoder.Start(ctx, opts, narration); err != nil {
		return nil, fmt.Errorf("encoder start: %w", err)
	}
	return c.run(ctx, bg, schedule, opts, maxDurationSeconds)
}

func (c *Capture) run(ctx context.Context, bg *Background, schedule []ScheduledSegment, opts entities.RenderOptions, maxDurationSeconds int) (*Result, error) {
	budget := maxDurationSeconds * opts.FPS
	total := TotalFrames(schedule)

	res := &Result{}
	frameIndex := 0

render:
	for _, seg := range schedule {
		for i := 0; i < seg.Frames; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if budget > 0 && frameIndex >= budget {
				res.Truncated = true
				if c.logger != nil {
					c.logger.Info("✂️ Duration cap reached, truncating capture",
						zap.Int("frames_out", frameIndex),
						zap.Int("budget", budget),
					)
				}
				break render
			}

			img, err := c.composer.Compose(bg.FrameAt(frameIndex, total), frameIndex, seg.Text)
			if err != nil {
				return nil, fmt.Errorf("compose frame %d: %w", frameIndex, err)
			}
			if err := c.encoder.WriteFrame(img); err != nil {
				return nil, fmt.Errorf("write frame %d: %w", frameIndex, err)
			}
			frameIndex++
		}
	}

	video, err := c.encoder.Close()
	if err != nil {
		return nil, fmt.Errorf("encoder close: %w", err)
	}

	res.Video = video
	res.FramesOut = frameIndex
	return res, nil
}
