package video

import (
	"time"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// VideoResponse represents one render job in API responses
type VideoResponse struct {
	ID            string  `json:"id"`
	Idea          string  `json:"idea"`
	Language      string  `json:"language"`
	Template      string  `json:"template,omitempty"`
	Background    string  `json:"background"`
	Tier          string  `json:"tier"`
	Status        string  `json:"status"`
	Progress      int     `json:"progress"`
	StatusMessage string  `json:"status_message,omitempty"`
	Bytes         int64   `json:"bytes,omitempty"`
	Duration      float64 `json:"duration_seconds,omitempty"`
	HasNarration  bool    `json:"has_narration"`
	Watermarked   bool    `json:"watermarked"`
	ErrorCode     *string `json:"error_code,omitempty"`
	ErrorMessage  *string `json:"error_message,omitempty"`
	Retryable     bool    `json:"retryable,omitempty"`
	CreatedAt     string  `json:"created_at"`
	CompletedAt   *string `json:"completed_at,omitempty"`
}

// FromRenderJob maps a render job entity to its API shape
func FromRenderJob(job *entities.RenderJob) *VideoResponse {
	resp := &VideoResponse{
		ID:            job.ID.String(),
		Idea:          job.Idea,
		Language:      job.Language,
		Template:      job.Template,
		Background:    string(job.Background),
		Tier:          string(job.Tier),
		Status:        string(job.Status),
		Progress:      job.Progress,
		StatusMessage: job.StatusMessage,
		Bytes:         job.ArtifactBytes,
		Duration:      job.DurationSeconds,
		HasNarration:  job.HasNarration,
		Watermarked:   job.Watermarked,
		ErrorCode:     job.ErrorCode,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt.Format(time.RFC3339),
	}
	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

// VideoAcceptedResponse acknowledges an accepted generation request
type VideoAcceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DownloadResponse carries the presigned artifact URL
type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// ListVideosResponse is a paginated job listing
type ListVideosResponse struct {
	Videos []*VideoResponse `json:"videos"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
}
