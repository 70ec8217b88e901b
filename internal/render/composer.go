package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// RasterComposer implements Composer on a software raster surface. One
// instance is created per session and never shared across sessions.
type RasterComposer struct {
	opts      entities.RenderOptions
	face      font.Face
	watermark image.Image // nil when the logo asset could not be loaded
}

// NewRasterComposer creates a composer for the given render options. A
// missing watermark asset is not an error: the text fallback keeps the
// watermark invariant intact for tiers that require one.
func NewRasterComposer(opts entities.RenderOptions) (*RasterComposer, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build caption font face: %w", err)
	}

	c := &RasterComposer{opts: opts, face: face}

	if opts.WatermarkEnabled && opts.WatermarkPath != "" {
		if img, err := loadImage(opts.WatermarkPath); err == nil {
			c.watermark = withOpacity(img, 0.6)
		}
	}

	return c, nil
}

// Compose renders one frame: cover-fit background, uniform dark overlay,
// word-wrapped outlined caption, optional corner watermark.
func (c *RasterComposer) Compose(bg image.Image, frameIndex int, caption string) (image.Image, error) {
	w, h := c.opts.Width, c.opts.Height
	dc := gg.NewContext(w, h)

	if bg != nil {
		drawCover(dc, bg, w, h)
	} else {
		drawProcedural(dc, frameIndex, w, h)
	}

	// Legibility overlay across the full frame
	dc.SetRGBA(0, 0, 0, c.opts.OverlayOpacity)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	if caption != "" {
		c.drawCaption(dc, caption)
	}

	if c.opts.WatermarkEnabled {
		c.drawWatermark(dc)
	}

	return dc.Image(), nil
}

// drawCover scales the source so the shorter dimension fills the target
// exactly, cropping the overflow and centering the crop. No letterboxing
// regardless of source aspect ratio.
func drawCover(dc *gg.Context, src image.Image, w, h int) {
	scale, dx, dy := coverFit(src.Bounds().Dx(), src.Bounds().Dy(), w, h)

	dc.Push()
	dc.Translate(dx, dy)
	dc.Scale(scale, scale)
	dc.DrawImage(src, 0, 0)
	dc.Pop()
}

// coverFit computes the scale factor and centered offsets for cover-fitting
// a srcW×srcH image into a dstW×dstH frame
func coverFit(srcW, srcH, dstW, dstH int) (scale, dx, dy float64) {
	sx := float64(dstW) / float64(srcW)
	sy := float64(dstH) / float64(srcH)
	scale = sx
	if sy > sx {
		scale = sy
	}

	scaledW := float64(srcW) * scale
	scaledH := float64(srcH) * scale
	dx = (float64(dstW) - scaledW) / 2
	dy = (float64(dstH) - scaledH) / 2
	return scale, dx, dy
}

// drawCaption word-wraps the active caption, vertically centers the line
// block around the fixed baseline and draws each line twice: thick outline
// stroke first, solid fill on top.
func (c *RasterComposer) drawCaption(dc *gg.Context, caption string) {
	w := float64(c.opts.Width)
	h := float64(c.opts.Height)

	dc.SetFontFace(c.face)

	maxWidth := w - 2*c.opts.CaptionMargin
	lines := dc.WordWrap(caption, maxWidth)

	lineHeight := c.opts.FontSize * 1.3
	blockHeight := float64(len(lines)) * lineHeight
	baseline := h * c.opts.BaselineRatio
	startY := baseline - blockHeight/2 + lineHeight/2

	stroke := c.opts.StrokeWidth
	for i, line := range lines {
		y := startY + float64(i)*lineHeight

		// Outline pass: offset draws approximate a stroke thick enough to
		// hold contrast against any background
		if stroke > 0 {
			dc.SetRGB(0, 0, 0)
			for ox := -stroke; ox <= stroke; ox += stroke {
				for oy := -stroke; oy <= stroke; oy += stroke {
					if ox == 0 && oy == 0 {
						continue
					}
					dc.DrawStringAnchored(line, w/2+ox, y+oy, 0.5, 0.5)
				}
			}
		}

		// Fill pass
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(line, w/2, y, 0.5, 0.5)
	}
}

// drawWatermark anchors the logo to the bottom-right corner at reduced
// opacity. When the logo asset failed to load, a semi-transparent text
// watermark takes its place so free-tier watermarking cannot fail open.
func (c *RasterComposer) drawWatermark(dc *gg.Context) {
	w := float64(c.opts.Width)
	h := float64(c.opts.Height)
	const margin = 32.0

	if c.watermark != nil {
		b := c.watermark.Bounds()
		dc.DrawImage(c.watermark, int(w-margin)-b.Dx(), int(h-margin)-b.Dy())
		return
	}

	dc.SetFontFace(c.face)
	dc.SetRGBA(1, 1, 1, 0.5)
	dc.DrawStringAnchored(c.opts.WatermarkText, w-margin, h-margin, 1, 1)
}

// loadImage reads and decodes an image asset from disk
func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// withOpacity pre-multiplies a uniform alpha into the image so it can be
// drawn dimmed without per-draw blending support
func withOpacity(src image.Image, opacity float64) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)

	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = uint8(float64(out.Pix[i]) * opacity)
	}
	return out
}

// drawProcedural fills the frame with the animated gradient used when no
// background media resolved. Failure to fetch media degrades, never aborts.
func drawProcedural(dc *gg.Context, frameIndex, w, h int) {
	top, bottom := proceduralColors(frameIndex)
	grad := gg.NewLinearGradient(0, 0, 0, float64(h))
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
}

// proceduralColors drifts the gradient endpoints slowly over frames so the
// fallback background reads as animated rather than frozen
func proceduralColors(frameIndex int) (color.Color, color.Color) {
	phase := frameIndex % 360
	shift := uint8(phase * 255 / 360)
	top := color.RGBA{R: 24, G: 32, B: 96 + shift/4, A: 255}
	bottom := color.RGBA{R: 64 + shift/8, G: 24, B: 72, A: 255}
	return top, bottom
}
