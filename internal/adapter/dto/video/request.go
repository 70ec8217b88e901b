package video

import (
	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// CreateVideoRequest represents the request to start a video generation
type CreateVideoRequest struct {
	Idea          string `json:"idea" validate:"required,min=3,max=500"`
	Language      string `json:"language" validate:"omitempty,min=2,max=16"`
	Template      string `json:"template" validate:"omitempty,max=64"`
	VoiceGender   string `json:"voice_gender" validate:"omitempty,oneof=female male"`
	Background    string `json:"background" validate:"required,oneof=library search"`
	BackgroundRef string `json:"background_ref" validate:"omitempty,max=512"`
	Tier          string `json:"tier" validate:"tier"`
}

// ToGenerationRequest converts the payload into the pipeline's input,
// applying defaults for the optional fields
func (r *CreateVideoRequest) ToGenerationRequest() entities.GenerationRequest {
	language := r.Language
	if language == "" {
		language = "en"
	}
	tier := entities.Tier(r.Tier)
	if tier == "" {
		tier = entities.TierFree
	}
	voice := r.VoiceGender
	if voice == "" {
		voice = "female"
	}

	return entities.GenerationRequest{
		Idea:          r.Idea,
		Language:      language,
		Template:      r.Template,
		VoiceGender:   voice,
		Background:    entities.BackgroundKind(r.Background),
		BackgroundRef: r.BackgroundRef,
		Tier:          tier,
	}
}

// ListVideosRequest represents query parameters for listing render jobs
type ListVideosRequest struct {
	Page     int `query:"page" validate:"omitempty,min=1"`
	PageSize int `query:"page_size" validate:"omitempty,min=1,max=100"`
}
