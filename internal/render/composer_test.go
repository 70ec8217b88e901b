package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

func testOptions() entities.RenderOptions {
	opts := entities.DefaultRenderOptions()
	// Small surface keeps the pixel work cheap in tests
	opts.Width = 108
	opts.Height = 192
	opts.FontSize = 12
	opts.StrokeWidth = 2
	opts.CaptionMargin = 8
	return opts
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCoverFit(t *testing.T) {
	tests := []struct {
		name         string
		srcW, srcH   int
		dstW, dstH   int
		wantScale    float64
		wantNegativeX bool
		wantNegativeY bool
	}{
		{"landscape into portrait crops sides", 1920, 1080, 1080, 1920, 1920.0 / 1080.0, true, false},
		{"portrait into same portrait is identity", 1080, 1920, 1080, 1920, 1.0, false, false},
		{"square into portrait crops sides", 1000, 1000, 1080, 1920, 1.92, true, false},
		{"tall into portrait crops top and bottom", 1080, 4000, 1080, 1920, 1.0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, dx, dy := coverFit(tt.srcW, tt.srcH, tt.dstW, tt.dstH)
			if diff := scale - tt.wantScale; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("scale = %v, want %v", scale, tt.wantScale)
			}
			// Cover fit never leaves empty borders: scaled dims >= target
			if float64(tt.srcW)*scale < float64(tt.dstW)-1e-9 {
				t.Error("scaled width does not fill target")
			}
			if float64(tt.srcH)*scale < float64(tt.dstH)-1e-9 {
				t.Error("scaled height does not fill target")
			}
			if tt.wantNegativeX && dx >= 0 {
				t.Errorf("expected horizontal crop, dx = %v", dx)
			}
			if tt.wantNegativeY && dy >= 0 {
				t.Errorf("expected vertical crop, dy = %v", dy)
			}
		})
	}
}

func TestCompose_FrameDimensions(t *testing.T) {
	c, err := NewRasterComposer(testOptions())
	if err != nil {
		t.Fatalf("composer init: %v", err)
	}

	img, err := c.Compose(solidImage(50, 50, color.White), 0, "hello world caption")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 108 || b.Dy() != 192 {
		t.Errorf("frame is %dx%d, want 108x192", b.Dx(), b.Dy())
	}
}

func TestCompose_ProceduralFallbackWithoutBackground(t *testing.T) {
	c, err := NewRasterComposer(testOptions())
	if err != nil {
		t.Fatalf("composer init: %v", err)
	}

	a, err := c.Compose(nil, 0, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	bImg, err := c.Compose(nil, 180, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	// The procedural gradient drifts over frames, so distant frames differ
	if samePixels(a, bImg) {
		t.Error("procedural background should animate across frames")
	}
}

func TestCompose_TextWatermarkFallback(t *testing.T) {
	opts := testOptions()
	opts.WatermarkEnabled = true
	opts.WatermarkPath = "/nonexistent/logo.png"

	c, err := NewRasterComposer(opts)
	if err != nil {
		t.Fatalf("composer init: %v", err)
	}
	if c.watermark != nil {
		t.Fatal("watermark image should be nil when the asset is missing")
	}

	bg := solidImage(opts.Width, opts.Height, color.Black)
	plain, err := c.Compose(bg, 0, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	optsNoWM := testOptions()
	cNoWM, _ := NewRasterComposer(optsNoWM)
	bare, err := cNoWM.Compose(bg, 0, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	// The text fallback must leave visible marks: free tier can never end up
	// without some watermark
	if samePixels(plain, bare) {
		t.Error("watermarked frame should differ from unwatermarked frame")
	}
}

func TestCompose_CaptionChangesPixels(t *testing.T) {
	c, err := NewRasterComposer(testOptions())
	if err != nil {
		t.Fatalf("composer init: %v", err)
	}

	bg := solidImage(108, 192, color.Black)
	with, _ := c.Compose(bg, 0, "a caption that wraps over more than one line of text")
	without, _ := c.Compose(bg, 0, "")
	if samePixels(with, without) {
		t.Error("caption text should be visible on the frame")
	}
}

func TestBackgroundFrameAt(t *testing.T) {
	p1 := solidImage(4, 4, color.White)
	p2 := solidImage(4, 4, color.Black)

	photos := NewPhotoSetBackground([]image.Image{p1, p2})
	if photos.FrameAt(0, 100) != p1 {
		t.Error("first half of the run should show the first photo")
	}
	if photos.FrameAt(99, 100) != p2 {
		t.Error("second half of the run should show the second photo")
	}

	clip := NewVideoBackground([]image.Image{p1, p2})
	if clip.FrameAt(2, 100) != p1 || clip.FrameAt(3, 100) != p2 {
		t.Error("video frames should loop")
	}

	var none *Background
	if none.FrameAt(0, 10) != nil {
		t.Error("nil background should yield nil frames")
	}
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	for y := a.Bounds().Min.Y; y < a.Bounds().Max.Y; y++ {
		for x := a.Bounds().Min.X; x < a.Bounds().Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				return false
			}
		}
	}
	return true
}
