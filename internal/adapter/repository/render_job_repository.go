package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// RenderJobRepository handles render job data operations
type RenderJobRepository struct {
	db *gorm.DB
}

// NewRenderJobRepository creates a new render job repository
func NewRenderJobRepository(db *gorm.DB) *RenderJobRepository {
	return &RenderJobRepository{db: db}
}

// Create persists a new pending render job
func (r *RenderJobRepository) Create(ctx context.Context, job *entities.RenderJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a render job by ID. Missing jobs return (nil, nil).
func (r *RenderJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.RenderJob, error) {
	var job entities.RenderJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// MarkRunning transitions a job to running and stamps its start time
func (r *RenderJobRepository) MarkRunning(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.RenderJob{}).
		Where("id = ? AND status = ?", id, entities.RenderJobStatusPending).
		Updates(map[string]interface{}{
			"status":     entities.RenderJobStatusRunning,
			"started_at": now,
			"updated_at": now,
		}).Error
}

// UpdateProgress records the latest progress percentage and status message
func (r *RenderJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, progress int, message string) error {
	return r.db.WithContext(ctx).
		Model(&entities.RenderJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"progress":       progress,
			"status_message": message,
			"updated_at":     time.Now(),
		}).Error
}

// MarkCompleted records the stored artifact and its metadata
func (r *RenderJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID, artifactKey string, artifact *entities.GenerationArtifact) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.RenderJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           entities.RenderJobStatusCompleted,
			"progress":         100,
			"artifact_key":     artifactKey,
			"artifact_bytes":   artifact.SizeBytes,
			"duration_seconds": artifact.EstimatedDurationSeconds,
			"has_narration":    artifact.HasNarration,
			"watermarked":      artifact.Watermarked,
			"completed_at":     now,
			"updated_at":       now,
		}).Error
}

// MarkFailed records the typed failure a job ended with
func (r *RenderJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorCode, errorMessage string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.RenderJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entities.RenderJobStatusFailed,
			"error_code":    errorCode,
			"error_message": errorMessage,
			"completed_at":  now,
			"updated_at":    now,
		}).Error
}

// List retrieves recent jobs, newest first
func (r *RenderJobRepository) List(ctx context.Context, limit, offset int) ([]*entities.RenderJob, int64, error) {
	var jobs []*entities.RenderJob
	var total int64

	if err := r.db.WithContext(ctx).Model(&entities.RenderJob{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}
