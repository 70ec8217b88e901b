package mediasearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/minhducdev/clipforge/internal/infrastructure/cache"
	"github.com/minhducdev/clipforge/pkg/config"
)

// ProviderName identifies this collaborator in logs
const ProviderName = "pexels"

// Client queries a Pexels-style stock media API for background visuals.
// Search responses are cached: the same category is queried for every video
// in that niche, and the stock catalog changes slowly.
type Client struct {
	apiKey   string
	baseURL  string
	perPage  int
	cacheTTL time.Duration
	store    cache.Store
	client   *http.Client
	logger   *zap.Logger
}

// NewClient creates a media search client. store may be nil to disable caching.
func NewClient(cfg *config.MediaSearchConfig, store cache.Store, logger *zap.Logger) *Client {
	perPage := 8
	if cfg != nil && cfg.PerPage > 0 {
		perPage = cfg.PerPage
	}
	ttl := 6 * time.Hour
	if cfg != nil && cfg.CacheTTL > 0 {
		ttl = cfg.CacheTTL
	}
	timeout := 20 * time.Second
	if cfg != nil && cfg.RequestTimeout > 0 {
		timeout = cfg.RequestTimeout
	}

	var apiKey, base string
	if cfg != nil {
		apiKey = cfg.APIKey
		base = cfg.BaseURL
	}
	if base == "" {
		base = "https://api.pexels.com"
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  base,
		perPage:  perPage,
		cacheTTL: ttl,
		store:    store,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type photoSearchResponse struct {
	Photos []struct {
		Src struct {
			Portrait string `json:"portrait"`
			Large    string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

type videoSearchResponse struct {
	Videos []struct {
		VideoFiles []struct {
			Link   string `json:"link"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"video_files"`
	} `json:"videos"`
}

// SearchPortraitPhotos returns portrait-oriented image URLs for the query
func (c *Client) SearchPortraitPhotos(ctx context.Context, query string) ([]string, error) {
	cacheKey := "media:photos:" + query
	if urls, ok := c.cached(ctx, cacheKey); ok {
		return urls, nil
	}

	endpoint := fmt.Sprintf("%s/v1/search?query=%s&per_page=%s&orientation=portrait",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(c.perPage))

	var sr photoSearchResponse
	if err := c.get(ctx, endpoint, &sr); err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(sr.Photos))
	for _, p := range sr.Photos {
		src := p.Src.Portrait
		if src == "" {
			src = p.Src.Large
		}
		if src != "" {
			urls = append(urls, src)
		}
	}

	c.remember(ctx, cacheKey, urls)
	return urls, nil
}

// SearchVideo returns a single looping background clip URL for the query, or
// empty string when the catalog has none
func (c *Client) SearchVideo(ctx context.Context, query string) (string, error) {
	cacheKey := "media:video:" + query
	if urls, ok := c.cached(ctx, cacheKey); ok && len(urls) > 0 {
		return urls[0], nil
	}

	endpoint := fmt.Sprintf("%s/videos/search?query=%s&per_page=1&orientation=portrait",
		c.baseURL, url.QueryEscape(query))

	var sr videoSearchResponse
	if err := c.get(ctx, endpoint, &sr); err != nil {
		return "", err
	}

	if len(sr.Videos) == 0 || len(sr.Videos[0].VideoFiles) == 0 {
		return "", nil
	}

	// Prefer the highest-resolution portrait file
	best := ""
	bestWidth := 0
	for _, f := range sr.Videos[0].VideoFiles {
		if f.Height >= f.Width && f.Width > bestWidth {
			best = f.Link
			bestWidth = f.Width
		}
	}
	if best == "" {
		best = sr.Videos[0].VideoFiles[0].Link
	}

	c.remember(ctx, cacheKey, []string{best})
	return best, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("media search returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) cached(ctx context.Context, key string) ([]string, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil, false
	}
	return urls, true
}

func (c *Client) remember(ctx context.Context, key string, urls []string) {
	if c.store == nil || len(urls) == 0 {
		return
	}
	raw, err := json.Marshal(urls)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(raw), c.cacheTTL); err != nil && c.logger != nil {
		c.logger.Warn("⚠️ Failed to cache media search result", zap.String("key", key), zap.Error(err))
	}
}
