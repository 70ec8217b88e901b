package entities

// MediaAssetKind distinguishes the two background shapes
type MediaAssetKind string

const (
	MediaAssetVideo    MediaAssetKind = "video"     // one looping background clip
	MediaAssetPhotoSet MediaAssetKind = "photo_set" // ordered stills cycled across the render
)

// MediaAsset is the resolved background selection for a session. Exactly one
// kind is active; photo sets win over a video candidate when both are
// available because stills avoid buffering stalls during capture.
type MediaAsset struct {
	Kind    MediaAssetKind
	Sources []string // URLs or object keys; exactly one entry for video
}

// NewPhotoSet builds a photo-set asset
func NewPhotoSet(urls []string) MediaAsset {
	return MediaAsset{Kind: MediaAssetPhotoSet, Sources: urls}
}

// NewVideoAsset builds a single-clip asset
func NewVideoAsset(url string) MediaAsset {
	return MediaAsset{Kind: MediaAssetVideo, Sources: []string{url}}
}

// NarrationAudio is an encoded audio blob paired with its source size. A
// session may carry none; captions then render on a word-count timer.
type NarrationAudio struct {
	Data            []byte
	SizeBytes       int64
	Format          string  // "wav" or "mp3"
	DurationSeconds float64 // 0 when the synthesizer does not report it
}
