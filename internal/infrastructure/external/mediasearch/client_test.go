package mediasearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhducdev/clipforge/internal/infrastructure/cache"
	"github.com/minhducdev/clipforge/pkg/config"
)

func photoServer(t *testing.T, hits *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Query().Get("orientation") != "portrait" {
			t.Errorf("expected portrait orientation, got %q", r.URL.Query().Get("orientation"))
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"photos": []map[string]interface{}{
				{"src": map[string]string{"portrait": "https://img/1.jpg"}},
				{"src": map[string]string{"portrait": "https://img/2.jpg"}},
			},
		})
	}))
}

func TestSearchPortraitPhotos(t *testing.T) {
	hits := 0
	ts := photoServer(t, &hits)
	defer ts.Close()

	c := NewClient(&config.MediaSearchConfig{APIKey: "k", BaseURL: ts.URL, PerPage: 2}, nil, nil)
	urls, err := c.SearchPortraitPhotos(context.Background(), "nature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
}

func TestSearchPortraitPhotos_CacheHitSkipsNetwork(t *testing.T) {
	hits := 0
	ts := photoServer(t, &hits)
	defer ts.Close()

	store := cache.NewMemoryStore()
	c := NewClient(&config.MediaSearchConfig{APIKey: "k", BaseURL: ts.URL}, store, nil)

	if _, err := c.SearchPortraitPhotos(context.Background(), "nature"); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	if _, err := c.SearchPortraitPhotos(context.Background(), "nature"); err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected 1 upstream hit with cache, got %d", hits)
	}
}

func TestSearchPortraitPhotos_RequestTimeoutApplies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]interface{}{"photos": []interface{}{}})
	}))
	defer ts.Close()

	c := NewClient(&config.MediaSearchConfig{
		APIKey:         "k",
		BaseURL:        ts.URL,
		RequestTimeout: 20 * time.Millisecond,
	}, nil, nil)

	start := time.Now()
	_, err := c.SearchPortraitPhotos(context.Background(), "nature")
	if err == nil {
		t.Fatal("expected a timeout error from a stalled search")
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("search took %v, configured timeout was not applied", elapsed)
	}
}

func TestSearchVideo_PrefersPortraitFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"videos": []map[string]interface{}{
				{"video_files": []map[string]interface{}{
					{"link": "https://vid/landscape.mp4", "width": 1920, "height": 1080},
					{"link": "https://vid/portrait.mp4", "width": 1080, "height": 1920},
				}},
			},
		})
	}))
	defer ts.Close()

	c := NewClient(&config.MediaSearchConfig{APIKey: "k", BaseURL: ts.URL}, nil, nil)
	link, err := c.SearchVideo(context.Background(), "ocean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link != "https://vid/portrait.mp4" {
		t.Errorf("expected portrait file, got %q", link)
	}
}

func TestSearchVideo_EmptyCatalog(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"videos": []interface{}{}})
	}))
	defer ts.Close()

	c := NewClient(&config.MediaSearchConfig{APIKey: "k", BaseURL: ts.URL}, nil, nil)
	link, err := c.SearchVideo(context.Background(), "ocean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link != "" {
		t.Errorf("expected empty link, got %q", link)
	}
}
