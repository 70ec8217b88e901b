package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// RenderJobRepository defines the interface for render job data access
type RenderJobRepository interface {
	// Create persists a new pending render job
	Create(ctx context.Context, job *entities.RenderJob) error

	// FindByID retrieves a render job by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.RenderJob, error)

	// MarkRunning transitions a job to running and stamps its start time
	MarkRunning(ctx context.Context, id uuid.UUID) error

	// UpdateProgress records the latest progress percentage and status message
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int, message string) error

	// MarkCompleted records the stored artifact and its metadata
	MarkCompleted(ctx context.Context, id uuid.UUID, artifactKey string, artifact *entities.GenerationArtifact) error

	// MarkFailed records the typed failure a job ended with
	MarkFailed(ctx context.Context, id uuid.UUID, errorCode, errorMessage string) error

	// List retrieves recent jobs, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.RenderJob, int64, error)
}
