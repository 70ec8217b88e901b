package render

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// FFmpeg wraps the external encoder binary used for capture and for
// extracting frames from background clips
type FFmpeg struct {
	Binary  string
	WorkDir string
}

// NewFFmpeg creates the toolbox around a configured binary
func NewFFmpeg(binary, workDir string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &FFmpeg{Binary: binary, WorkDir: workDir}
}

// NewEncoder creates a fresh encoder for one capture session
func (f *FFmpeg) NewEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{f: f}
}

// FFmpegEncoder implements Encoder by feeding raw RGBA frames to an ffmpeg
// process over a pipe. Frames stream through incrementally, so peak memory
// stays bounded for long sessions; the encoded container lands in a work
// file that is read back and removed on Close.
type FFmpegEncoder struct {
	f *FFmpeg

	cmd         *exec.Cmd
	stdinWriter io.WriteCloser
	outPath     string
	audioTmp    string
	width       int
	height      int
	stderr      strings.Builder
	started     bool
}

// Start launches the ffmpeg process for a VP9/WebM encode, muxing the
// narration file when one is provided
func (e *FFmpegEncoder) Start(ctx context.Context, opts entities.RenderOptions, narration *entities.NarrationAudio) error {
	if e.started {
		return fmt.Errorf("encoder already started")
	}

	id := uuid.New().String()
	e.outPath = filepath.Join(e.f.WorkDir, "clip-"+id+".webm")
	e.width = opts.Width
	e.height = opts.Height

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "pipe:0",
	}

	if narration != nil && len(narration.Data) > 0 {
		e.audioTmp = filepath.Join(e.f.WorkDir, "narration-"+id+"."+narration.Format)
		if err := os.WriteFile(e.audioTmp, narration.Data, 0o600); err != nil {
			return fmt.Errorf("failed to stage narration file: %w", err)
		}
		args = append(args, "-i", e.audioTmp, "-c:a", "libopus", "-map", "0:v:0", "-map", "1:a:0")
	}

	args = append(args,
		"-c:v", "libvpx-vp9",
		"-b:v", fmt.Sprintf("%dk", opts.BitrateKbps),
		"-pix_fmt", "yuv420p",
		"-f", "webm",
		e.outPath,
	)

	cmd := exec.CommandContext(ctx, e.f.Binary, args...)
	cmd.Stderr = &e.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open encoder pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start encoder: %w", err)
	}

	e.cmd = cmd
	e.stdinWriter = stdin
	e.started = true
	return nil
}

// WriteFrame streams one composed frame into the encoder
func (e *FFmpegEncoder) WriteFrame(img image.Image) error {
	if !e.started {
		return fmt.Errorf("encoder not started")
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*e.width {
		converted := image.NewRGBA(image.Rect(0, 0, e.width, e.height))
		draw.Draw(converted, converted.Bounds(), img, img.Bounds().Min, draw.Src)
		rgba = converted
	}

	if _, err := e.stdinWriter.Write(rgba.Pix); err != nil {
		return fmt.Errorf("encoder rejected frame: %w: %s", err, e.stderr.String())
	}
	return nil
}

// Close finalizes the stream: the pipe closes, ffmpeg flushes the container,
// and the result is read back
func (e *FFmpegEncoder) Close() (*EncodedVideo, error) {
	if !e.started {
		return nil, fmt.Errorf("encoder not started")
	}
	defer func() {
		if e.audioTmp != "" {
			os.Remove(e.audioTmp)
		}
		os.Remove(e.outPath)
		e.started = false
	}()

	if err := e.stdinWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to close encoder pipe: %w", err)
	}
	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("encoder exited with error: %w: %s", err, e.stderr.String())
	}

	data, err := os.ReadFile(e.outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded output: %w", err)
	}

	return &EncodedVideo{Data: data, ContentType: "video/webm"}, nil
}

// ExtractFrames pulls up to maxFrames stills from a video clip, one per
// second, for use as a looping background on the headless surface
func (f *FFmpeg) ExtractFrames(ctx context.Context, videoData []byte, maxFrames int) ([]image.Image, error) {
	id := uuid.New().String()
	inPath := filepath.Join(f.WorkDir, "bg-"+id+".mp4")
	pattern := filepath.Join(f.WorkDir, "bg-"+id+"-%03d.png")

	if err := os.WriteFile(inPath, videoData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to stage background clip: %w", err)
	}
	defer os.Remove(inPath)

	cmd := exec.CommandContext(ctx, f.Binary,
		"-i", inPath,
		"-vf", "fps=1",
		"-frames:v", strconv.Itoa(maxFrames),
		pattern,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("frame extraction failed: %w: %s", err, output)
	}

	matches, err := filepath.Glob(filepath.Join(f.WorkDir, "bg-"+id+"-*.png"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	frames := make([]image.Image, 0, len(matches))
	for _, m := range matches {
		img, err := loadImage(m)
		os.Remove(m)
		if err != nil {
			continue
		}
		frames = append(frames, img)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from background clip")
	}
	return frames, nil
}
