package generation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/internal/render"
)

// maxClipFrames caps how many stills are extracted from a background clip.
// One frame per second of a typical stock clip is plenty for a looping
// backdrop.
const maxClipFrames = 30

type objectStore interface {
	FetchObject(ctx context.Context, objectName string) ([]byte, error)
}

type mediaSearcher interface {
	SearchPortraitPhotos(ctx context.Context, query string) ([]string, error)
	SearchVideo(ctx context.Context, query string) (string, error)
}

type frameExtractor interface {
	ExtractFrames(ctx context.Context, videoData []byte, maxFrames int) ([]image.Image, error)
}

// Resolver obtains background visuals for a session: a user-selected library
// asset, or stock media from the search service. Every failure inside the
// resolver is non-fatal to the pipeline; the caller falls back to a
// procedural background.
type Resolver struct {
	library objectStore
	search  mediaSearcher
	frames  frameExtractor
	http    *http.Client
	logger  *zap.Logger
}

// NewResolver wires the resolver's collaborators
func NewResolver(library objectStore, search mediaSearcher, frames frameExtractor, logger *zap.Logger) *Resolver {
	return &Resolver{
		library: library,
		search:  search,
		frames:  frames,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// Resolve turns the request's background selection into decoded frames ready
// for compositing, plus the asset descriptor recorded on the session. Photo
// sets win over a video candidate when both are available.
func (r *Resolver) Resolve(ctx context.Context, req entities.GenerationRequest) (*render.Background, *entities.MediaAsset, error) {
	if req.Background == entities.BackgroundLibrary {
		return r.resolveLibrary(ctx, req.BackgroundRef)
	}
	return r.resolveSearch(ctx, req.BackgroundRef)
}

// resolveLibrary loads a user-owned asset straight from object storage, no
// network search involved
func (r *Resolver) resolveLibrary(ctx context.Context, objectKey string) (*render.Background, *entities.MediaAsset, error) {
	data, err := r.library.FetchObject(ctx, objectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("library asset %s: %w", objectKey, err)
	}

	if isVideoKey(objectKey) {
		frames, err := r.frames.ExtractFrames(ctx, data, maxClipFrames)
		if err != nil {
			return nil, nil, fmt.Errorf("library clip %s: %w", objectKey, err)
		}
		asset := entities.NewVideoAsset(objectKey)
		return render.NewVideoBackground(frames), &asset, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("library image %s: %w", objectKey, err)
	}
	asset := entities.NewPhotoSet([]string{objectKey})
	return render.NewPhotoSetBackground([]image.Image{img}), &asset, nil
}

// resolveSearch queries the stock media service: portrait stills first, then
// a single looping clip when no stills come back
func (r *Resolver) resolveSearch(ctx context.Context, query string) (*render.Background, *entities.MediaAsset, error) {
	urls, err := r.search.SearchPortraitPhotos(ctx, query)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("⚠️ Photo search failed, trying video",
				zap.String("query", query),
				zap.Error(err),
			)
		}
	}

	if len(urls) > 0 {
		photos, err := r.downloadPhotos(ctx, urls)
		if err == nil && len(photos) > 0 {
			asset := entities.NewPhotoSet(urls)
			return render.NewPhotoSetBackground(photos), &asset, nil
		}
		if r.logger != nil {
			r.logger.Warn("⚠️ Photo downloads failed, trying video", zap.Error(err))
		}
	}

	videoURL, err := r.search.SearchVideo(ctx, query)
	if err != nil || videoURL == "" {
		return nil, nil, entities.ErrNoBackgroundMedia
	}

	data, err := r.download(ctx, videoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("background clip download: %w", err)
	}
	frames, err := r.frames.ExtractFrames(ctx, data, maxClipFrames)
	if err != nil {
		return nil, nil, fmt.Errorf("background clip frames: %w", err)
	}

	asset := entities.NewVideoAsset(videoURL)
	return render.NewVideoBackground(frames), &asset, nil
}

// downloadPhotos fetches and decodes the search results concurrently,
// preserving the search ranking order. Individual failures drop that photo;
// the set survives as long as one decodes.
func (r *Resolver) downloadPhotos(ctx context.Context, urls []string) ([]image.Image, error) {
	decoded := make([]image.Image, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			data, err := r.download(gctx, url)
			if err != nil {
				if r.logger != nil {
					r.logger.Warn("⚠️ Photo download failed", zap.String("url", url), zap.Error(err))
				}
				return nil
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				return nil
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	photos := make([]image.Image, 0, len(decoded))
	for _, img := range decoded {
		if img != nil {
			photos = append(photos, img)
		}
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos could be downloaded")
	}
	return photos, nil
}

func (r *Resolver) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func isVideoKey(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range []string{".mp4", ".webm", ".mov", ".mkv"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
