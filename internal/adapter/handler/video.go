package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/minhducdev/clipforge/errors"
	"github.com/minhducdev/clipforge/internal/adapter/dto/video"
	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/internal/domain/repositories"
	"github.com/minhducdev/clipforge/internal/usecase/generation"
)

// downloadURLExpiry bounds how long a presigned artifact link stays valid
const downloadURLExpiry = 15 * time.Minute

type urlSigner interface {
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// Video handles video generation HTTP requests
type Video struct {
	runner  *generation.Runner
	jobs    repositories.RenderJobRepository
	storage urlSigner
	logger  *zap.Logger
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(runner *generation.Runner, jobs repositories.RenderJobRepository, storage urlSigner, logger *zap.Logger) *Video {
	return &Video{
		runner:  runner,
		jobs:    jobs,
		storage: storage,
		logger:  logger,
	}
}

// Create handles POST /v1/videos: validates the request, persists a job and
// starts the pipeline in the background. Returns 202 with the job id.
func (h *Video) Create(c echo.Context) error {
	var req video.CreateVideoRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	job, err := h.runner.Submit(c.Request().Context(), req.ToGenerationRequest())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, video.VideoAcceptedResponse{
		ID:     job.ID.String(),
		Status: string(job.Status),
	})
}

// Get handles GET /v1/videos/:id: returns the persisted job state, overlaid
// with the live progress snapshot while the job is still running
func (h *Video) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid job id"))
	}

	job, err := h.jobs.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("find render job", err))
	}
	if job == nil {
		return HandleError(h.logger, c, errors.ErrGenJobNotFound(id.String()))
	}

	resp := video.FromRenderJob(job)
	if !job.IsTerminal() {
		if snap, ok := h.runner.Snapshot(c.Request().Context(), id); ok {
			if snap.Percent > resp.Progress {
				resp.Progress = snap.Percent
			}
			if snap.Message != "" {
				resp.StatusMessage = snap.Message
			}
		}
	}
	if job.ErrorCode != nil {
		resp.Retryable = retryableCode(*job.ErrorCode)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// Download handles GET /v1/videos/:id/download: presigns a short-lived URL
// for a completed artifact
func (h *Video) Download(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid job id"))
	}

	job, err := h.jobs.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("find render job", err))
	}
	if job == nil {
		return HandleError(h.logger, c, errors.ErrGenJobNotFound(id.String()))
	}
	if job.Status != entities.RenderJobStatusCompleted || job.ArtifactKey == nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("video is not ready for download"))
	}

	url, err := h.storage.GetFileURL(c.Request().Context(), *job.ArtifactKey, downloadURLExpiry)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign artifact", err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, video.DownloadResponse{
		URL:       url,
		ExpiresIn: int(downloadURLExpiry.Seconds()),
	})
}

// List handles GET /v1/videos: recent jobs, newest first
func (h *Video) List(c echo.Context) error {
	var req video.ListVideosRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	jobs, total, err := h.jobs.List(c.Request().Context(), req.PageSize, (req.Page-1)*req.PageSize)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list render jobs", err))
	}

	resp := video.ListVideosResponse{
		Videos: make([]*video.VideoResponse, 0, len(jobs)),
		Total:  total,
		Page:   req.Page,
	}
	for _, job := range jobs {
		resp.Videos = append(resp.Videos, video.FromRenderJob(job))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, resp)
}

// retryableCode maps a persisted symbolic error code back to the retry hint
func retryableCode(code string) bool {
	switch code {
	case errors.ErrorCode_GEN_CONNECTIVITY.String(),
		errors.ErrorCode_GEN_SCRIPT_FAILED.String(),
		errors.ErrorCode_GEN_BUSY.String():
		return true
	}
	return false
}
