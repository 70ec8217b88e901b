package entities

import (
	"time"

	"github.com/google/uuid"
)

// RenderJobStatus represents the status of a render job
type RenderJobStatus string

const (
	RenderJobStatusPending   RenderJobStatus = "pending"   // Accepted, waiting for a render slot
	RenderJobStatusRunning   RenderJobStatus = "running"   // Pipeline in flight
	RenderJobStatusCompleted RenderJobStatus = "completed" // Artifact validated and stored
	RenderJobStatusFailed    RenderJobStatus = "failed"    // Fatal pipeline error
)

// Tier is the caller's subscription level
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// TierLimits gates output duration and watermarking per tier. Consulted once
// at composition start; immutable for the session's lifetime.
type TierLimits struct {
	MaxDurationSeconds int
	WatermarkRequired  bool
}

// BackgroundKind selects where the background visuals come from
type BackgroundKind string

const (
	BackgroundLibrary BackgroundKind = "library" // user-selected asset, no network
	BackgroundSearch  BackgroundKind = "search"  // stock media search by category
)

// RenderJob represents one persisted video generation run
type RenderJob struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Idea          string         `json:"idea" gorm:"type:text;not null"`
	Language      string         `json:"language" gorm:"type:varchar(16);not null;default:'en'"`
	Template      string         `json:"template" gorm:"type:varchar(64)"`
	VoiceGender   string         `json:"voice_gender" gorm:"type:varchar(16)"`
	Background    BackgroundKind `json:"background" gorm:"type:varchar(16);not null"`
	BackgroundRef string         `json:"background_ref" gorm:"type:text"` // library object key or search category
	Tier          Tier           `json:"tier" gorm:"type:varchar(16);not null;default:'free'"`

	Status        RenderJobStatus `json:"status" gorm:"type:varchar(20);not null;index;default:'pending'"`
	Progress      int             `json:"progress" gorm:"type:integer;default:0"`
	StatusMessage string          `json:"status_message" gorm:"type:text"`

	// Result
	ArtifactKey     *string  `json:"artifact_key,omitempty" gorm:"type:text"`
	ArtifactBytes   int64    `json:"artifact_bytes" gorm:"type:bigint;default:0"`
	DurationSeconds float64  `json:"duration_seconds" gorm:"type:double precision;default:0"`
	HasNarration    bool     `json:"has_narration" gorm:"default:false"`
	Watermarked     bool     `json:"watermarked" gorm:"default:false"`
	ErrorCode       *string  `json:"error_code,omitempty" gorm:"type:varchar(64)"`
	ErrorMessage    *string  `json:"error_message,omitempty" gorm:"type:text"`

	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewRenderJob creates a new pending render job
func NewRenderJob(idea, language, template, voiceGender string, background BackgroundKind, backgroundRef string, tier Tier) *RenderJob {
	return &RenderJob{
		ID:            uuid.New(),
		Idea:          idea,
		Language:      language,
		Template:      template,
		VoiceGender:   voiceGender,
		Background:    background,
		BackgroundRef: backgroundRef,
		Tier:          tier,
		Status:        RenderJobStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// IsTerminal reports whether the job reached a final state
func (j *RenderJob) IsTerminal() bool {
	return j.Status == RenderJobStatusCompleted || j.Status == RenderJobStatusFailed
}
