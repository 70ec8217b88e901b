package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/minhducdev/clipforge/errors"
	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/internal/domain/repositories"
	"github.com/minhducdev/clipforge/internal/infrastructure/cache"
	"github.com/minhducdev/clipforge/pkg/jobcontext"
)

// maxJobRuntime bounds one render job end to end, covering every remote
// timeout plus the longest allowed composition.
const maxJobRuntime = 15 * time.Minute

// progressTTL keeps live snapshots around long enough for a polling client
// but lets finished jobs expire from the cache on their own.
const progressTTL = time.Hour

type artifactStore interface {
	UploadArtifact(ctx context.Context, objectName string, data []byte, contentType string) error
}

// ProgressSnapshot is the live job state pushed to the cache on every update
type ProgressSnapshot struct {
	Percent int    `json:"percent"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Runner accepts render jobs and executes the pipeline in the background,
// bounded by a fixed number of concurrent render slots. Each slot owns its
// session's surface and encoder exclusively.
type Runner struct {
	service *Service
	jobs    repositories.RenderJobRepository
	store   artifactStore
	cache   cache.Store
	logger  *zap.Logger

	slots  chan struct{}
	wg     sync.WaitGroup
	nextID int
	mu     sync.Mutex
}

// NewRunner creates a runner with maxConcurrent render slots
func NewRunner(
	service *Service,
	jobs repositories.RenderJobRepository,
	store artifactStore,
	cacheStore cache.Store,
	maxConcurrent int,
	logger *zap.Logger,
) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		service: service,
		jobs:    jobs,
		store:   store,
		cache:   cacheStore,
		logger:  logger,
		slots:   make(chan struct{}, maxConcurrent),
	}
}

// Submit persists a new job and starts the pipeline if a render slot is free.
// When all slots are busy the job is rejected rather than queued, so callers
// get immediate backpressure instead of an unbounded wait.
func (r *Runner) Submit(ctx context.Context, req entities.GenerationRequest) (*entities.RenderJob, error) {
	select {
	case r.slots <- struct{}{}:
	default:
		return nil, apperrors.ErrGenBusy()
	}

	job := entities.NewRenderJob(
		req.Idea, req.Language, req.Template, req.VoiceGender,
		req.Background, req.BackgroundRef, req.Tier,
	)
	if err := r.jobs.Create(ctx, job); err != nil {
		<-r.slots
		return nil, apperrors.ErrDBQueryFailed("create render job", err)
	}

	r.mu.Lock()
	r.nextID++
	workerID := r.nextID
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("🎬 Render job accepted",
			zap.String("job_id", job.ID.String()),
			zap.String("idea", req.Idea),
			zap.String("tier", string(req.Tier)),
		)
	}

	r.wg.Add(1)
	go r.runJob(job, req, workerID)

	return job, nil
}

// Wait blocks until every in-flight job finishes. Used for graceful shutdown.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// runJob drives one job through the pipeline on its own goroutine, detached
// from the submitting request's context
func (r *Runner) runJob(job *entities.RenderJob, req entities.GenerationRequest, workerID int) {
	defer r.wg.Done()
	defer func() { <-r.slots }()

	ctx, cancel := jobcontext.JobBegin(context.Background(), job.ID, workerID, maxJobRuntime)
	defer cancel()

	if err := r.jobs.MarkRunning(ctx, job.ID); err != nil {
		if r.logger != nil {
			r.logger.Error("❌ Failed to mark job running",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	}
	r.snapshot(ctx, job.ID, 0, "Starting...", entities.RenderJobStatusRunning)

	lastPercent := -1
	onProgress := func(percent int, message string) {
		// Ramp ticks repeat percentages; only state changes hit the database
		if percent == lastPercent {
			return
		}
		lastPercent = percent

		if err := r.jobs.UpdateProgress(ctx, job.ID, percent, message); err != nil && r.logger != nil {
			r.logger.Warn("⚠️ Failed to persist progress",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		r.snapshot(ctx, job.ID, percent, message, entities.RenderJobStatusRunning)
	}

	artifact, err := r.service.Run(ctx, req, onProgress)
	if err != nil {
		r.fail(ctx, job.ID, err)
		return
	}

	objectName := fmt.Sprintf("artifacts/%s.webm", job.ID.String())
	if err := r.store.UploadArtifact(ctx, objectName, artifact.Data, artifact.ContentType); err != nil {
		r.fail(ctx, job.ID, apperrors.ErrStorageFailed("upload artifact", err))
		return
	}

	if err := r.jobs.MarkCompleted(ctx, job.ID, objectName, artifact); err != nil {
		if r.logger != nil {
			r.logger.Error("❌ Failed to mark job completed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
		return
	}
	r.snapshot(ctx, job.ID, 100, "Your video is ready", entities.RenderJobStatusCompleted)

	if r.logger != nil {
		r.logger.Info("✅ Render job completed",
			zap.String("job_id", job.ID.String()),
			zap.String("artifact_key", objectName),
			zap.Int64("bytes", artifact.SizeBytes),
		)
	}
}

// fail records a terminal failure with its typed error code
func (r *Runner) fail(ctx context.Context, jobID uuid.UUID, err error) {
	code := apperrors.ErrorCode_INTERNAL.String()
	message := err.Error()
	if appErr, ok := err.(apperrors.AppError); ok {
		code = appErr.Code.String()
		message = appErr.Message
	}

	if r.logger != nil {
		r.logger.Error("❌ Render job failed",
			zap.String("job_id", jobID.String()),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	if dbErr := r.jobs.MarkFailed(ctx, jobID, code, message); dbErr != nil && r.logger != nil {
		r.logger.Error("❌ Failed to mark job failed",
			zap.String("job_id", jobID.String()),
			zap.Error(dbErr),
		)
	}
	r.snapshot(ctx, jobID, 0, message, entities.RenderJobStatusFailed)
}

// snapshot pushes the live job state to the cache for cheap status polling
func (r *Runner) snapshot(ctx context.Context, jobID uuid.UUID, percent int, message string, status entities.RenderJobStatus) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(ProgressSnapshot{Percent: percent, Message: message, Status: string(status)})
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, progressKey(jobID), string(data), progressTTL); err != nil && r.logger != nil {
		r.logger.Warn("⚠️ Failed to cache progress snapshot",
			zap.String("job_id", jobID.String()),
			zap.Error(err),
		)
	}
}

// Snapshot reads the cached live state of a job, if any
func (r *Runner) Snapshot(ctx context.Context, jobID uuid.UUID) (*ProgressSnapshot, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, ok, err := r.cache.Get(ctx, progressKey(jobID))
	if err != nil || !ok {
		return nil, false
	}
	var snap ProgressSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func progressKey(jobID uuid.UUID) string {
	return "job:progress:" + jobID.String()
}
