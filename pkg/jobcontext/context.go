package jobcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keyPhase        KeyContext = "phase"
	keyWorkerID     KeyContext = "worker_id"
	keyJobStartTime KeyContext = "job_start_time"
)

// JobMetadata holds metadata for one render job execution
type JobMetadata struct {
	JobID     uuid.UUID
	Phase     string
	WorkerID  int
	StartTime time.Time
}

// JobBegin initializes a render job context with metadata and an overall
// deadline. The deadline bounds the whole pipeline run, independent of the
// per-phase timeouts carried by the retry policies.
func JobBegin(parentCtx context.Context, jobID uuid.UUID, workerID int, maxRuntime time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, maxRuntime)

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())

	return ctx, cancel
}

// WithPhase records the pipeline phase currently executing
func WithPhase(ctx context.Context, phase string) context.Context {
	return context.WithValue(ctx, keyPhase, phase)
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (uuid.UUID, bool) {
	jobID, ok := ctx.Value(keyJobID).(uuid.UUID)
	return jobID, ok
}

// GetPhase extracts the current pipeline phase from context
func GetPhase(ctx context.Context) string {
	phase, ok := ctx.Value(keyPhase).(string)
	if !ok {
		return ""
	}
	return phase
}

// GetWorkerID extracts worker ID from context
func GetWorkerID(ctx context.Context) int {
	workerID, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return workerID
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	startTime, _ := GetJobStartTime(ctx)

	return &JobMetadata{
		JobID:     jobID,
		Phase:     GetPhase(ctx),
		WorkerID:  GetWorkerID(ctx),
		StartTime: startTime,
	}
}
