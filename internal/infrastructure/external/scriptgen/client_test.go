package scriptgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minhducdev/clipforge/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.ScriptGenConfig{APIKey: "test-key", BaseURL: baseURL})
}

func TestGenerateScript_Success(t *testing.T) {
	content := `{"title":"Morning Routines","description":"A short story","script":"Rise early. Win the day.","tags":["habits"],"hashtags":["#shorts"]}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	defer ts.Close()

	doc, err := newTestClient(ts.URL).GenerateScript(context.Background(), "morning routines", "en", "motivation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Morning Routines" {
		t.Errorf("unexpected title %q", doc.Title)
	}
	if doc.Script != "Rise early. Win the day." {
		t.Errorf("unexpected script %q", doc.Script)
	}
	if len(doc.Tags) != 1 || len(doc.Hashtags) != 1 {
		t.Errorf("tags/hashtags not parsed: %v %v", doc.Tags, doc.Hashtags)
	}
}

func TestGenerateScript_CodeFencedJSON(t *testing.T) {
	content := "```json\n{\"title\":\"T\",\"script\":\"Some narration text here.\"}\n```"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
	defer ts.Close()

	doc, err := newTestClient(ts.URL).GenerateScript(context.Background(), "idea", "en", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Script != "Some narration text here." {
		t.Errorf("unexpected script %q", doc.Script)
	}
}

func TestGenerateScript_EmptyScriptRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"title":"T","script":"  "}`}},
			},
		})
	}))
	defer ts.Close()

	if _, err := newTestClient(ts.URL).GenerateScript(context.Background(), "idea", "en", ""); err == nil {
		t.Fatal("expected error for empty script text")
	}
}

func TestGenerateScript_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	if _, err := newTestClient(ts.URL).GenerateScript(context.Background(), "idea", "en", ""); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestProbe(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()
	if err := newTestClient(up.URL).Probe(context.Background()); err != nil {
		t.Fatalf("probe should succeed against healthy backend: %v", err)
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	if err := newTestClient(down.URL).Probe(context.Background()); err == nil {
		t.Fatal("probe should fail against 5xx backend")
	}
}
