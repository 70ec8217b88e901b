package render

import (
	"context"
	"image"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// Composer renders one visual frame at a time onto an off-screen surface.
// The orchestrator depends on this capability, not on the raster backend.
type Composer interface {
	// Compose draws background, legibility overlay, caption and watermark for
	// one frame. bg may be nil; the procedural background fills in.
	Compose(bg image.Image, frameIndex int, caption string) (image.Image, error)
}

// EncodedVideo is the multiplexed output of a capture run
type EncodedVideo struct {
	Data        []byte
	ContentType string
}

// Encoder captures composed frames into an encoded container, muxing
// narration audio when present. Frames arrive in draw order; data is
// accumulated incrementally so long sessions do not buffer one huge blob.
type Encoder interface {
	Start(ctx context.Context, opts entities.RenderOptions, narration *entities.NarrationAudio) error
	WriteFrame(img image.Image) error
	// Close finalizes the stream and returns the encoded result. Safe to call
	// after a partial run; whatever was written becomes the artifact.
	Close() (*EncodedVideo, error)
}
