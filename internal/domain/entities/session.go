package entities

import (
	"time"

	"github.com/google/uuid"
)

// GenerationPhase names the strictly ordered pipeline phases
type GenerationPhase string

const (
	PhaseValidation   GenerationPhase = "validation"
	PhaseConnectivity GenerationPhase = "connectivity"
	PhaseScript       GenerationPhase = "script"
	PhaseSanitation   GenerationPhase = "sanitation"
	PhaseBackground   GenerationPhase = "background"
	PhaseNarration    GenerationPhase = "narration"
	PhaseComposition  GenerationPhase = "composition"
	PhaseArtifact     GenerationPhase = "artifact_validation"
)

// GenerationRequest is the validated input to one pipeline run
type GenerationRequest struct {
	Idea          string
	Language      string
	Template      string
	VoiceGender   string
	Background    BackgroundKind
	BackgroundRef string
	Tier          Tier
}

// GenerationSession is one user-initiated run. Created when generation
// starts, mutated only by the orchestrator and its progress reporter, and
// discarded once the result is consumed. The drawing surface, background
// media and capture stream it references are exclusively owned by this
// session; no two sessions render against the same surface.
type GenerationSession struct {
	ID      uuid.UUID
	Request GenerationRequest
	Limits  TierLimits

	Phase    GenerationPhase
	Script   *ScriptDocument
	Segments []CaptionSegment
	Asset    *MediaAsset
	Audio    *NarrationAudio

	StartedAt time.Time
}

// NewGenerationSession creates a session for a request with its tier limits
// pinned for the session lifetime
func NewGenerationSession(req GenerationRequest, limits TierLimits) *GenerationSession {
	return &GenerationSession{
		ID:        uuid.New(),
		Request:   req,
		Limits:    limits,
		Phase:     PhaseValidation,
		StartedAt: time.Now(),
	}
}
