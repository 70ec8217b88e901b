package entities

// RenderOptions holds the fixed compositing parameters for a session
type RenderOptions struct {
	Width  int
	Height int
	FPS    int

	BitrateKbps    int
	OverlayOpacity float64

	FontSize          float64
	CaptionMargin     float64 // horizontal margin on both sides
	BaselineRatio     float64 // caption block centered around this fraction of height
	StrokeWidth       float64
	WatermarkEnabled  bool
	WatermarkPath     string
	WatermarkText     string // drawn when the logo asset cannot be loaded
}

// DefaultRenderOptions returns the portrait short-video defaults
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:          1080,
		Height:         1920,
		FPS:            30,
		BitrateKbps:    5000,
		OverlayOpacity: 0.35,
		FontSize:       64,
		CaptionMargin:  80,
		BaselineRatio:  0.75,
		StrokeWidth:    8,
		WatermarkText:  "clipforge",
	}
}

// GenerationArtifact is the terminal success value of a session
type GenerationArtifact struct {
	Data      []byte
	SizeBytes int64
	// EstimatedDurationSeconds derives from narration word count at the fixed
	// speaking rate, capped by the tier limit. It is an estimate, not a
	// measurement of the encoded stream.
	EstimatedDurationSeconds float64
	HasNarration             bool
	Watermarked              bool
	ContentType              string
}
