package render

import (
	"image"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// Background is the realized background media for one session: decoded
// frames owned exclusively by that session and released when it ends.
type Background struct {
	Kind   entities.MediaAssetKind
	Frames []image.Image
}

// NewPhotoSetBackground wraps decoded still images
func NewPhotoSetBackground(frames []image.Image) *Background {
	return &Background{Kind: entities.MediaAssetPhotoSet, Frames: frames}
}

// NewVideoBackground wraps frames extracted from a looping clip
func NewVideoBackground(frames []image.Image) *Background {
	return &Background{Kind: entities.MediaAssetVideo, Frames: frames}
}

// FrameAt picks the background image for a frame index. Photo sets split the
// total run evenly, one contiguous slot per photo; video frames loop. Returns
// nil when there is nothing to draw, which selects the procedural fill.
func (b *Background) FrameAt(frameIndex, totalFrames int) image.Image {
	if b == nil || len(b.Frames) == 0 {
		return nil
	}

	switch b.Kind {
	case entities.MediaAssetPhotoSet:
		if totalFrames <= 0 {
			return b.Frames[0]
		}
		idx := frameIndex * len(b.Frames) / totalFrames
		if idx >= len(b.Frames) {
			idx = len(b.Frames) - 1
		}
		return b.Frames[idx]
	default:
		return b.Frames[frameIndex%len(b.Frames)]
	}
}
