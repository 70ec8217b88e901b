package generation

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/minhducdev/clipforge/errors"
	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/internal/infrastructure/external/scriptgen"
	"github.com/minhducdev/clipforge/internal/render"
	"github.com/minhducdev/clipforge/pkg/config"
	"github.com/minhducdev/clipforge/pkg/jobcontext"
	"github.com/minhducdev/clipforge/pkg/retry"
)

type scriptProvider interface {
	Probe(ctx context.Context) error
	GenerateScript(ctx context.Context, idea, language, template string) (*entities.ScriptDocument, error)
}

type remoteSynthesizer interface {
	Configured() bool
	Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error)
}

type localSynthesizer interface {
	Available() bool
	Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error)
}

type backgroundResolver interface {
	Resolve(ctx context.Context, req entities.GenerationRequest) (*render.Background, *entities.MediaAsset, error)
}

// EncoderFactory creates a fresh encoder for one capture session. The encoder
// is owned exclusively by that session and released when capture ends.
type EncoderFactory func() render.Encoder

// Service is the top-level pipeline state machine. It sequences the phases
// strictly in order, owns the retry and fallback policy, enforces the tier's
// duration cap, and yields either a validated artifact or a typed failure.
type Service struct {
	scripts    scriptProvider
	narration  remoteSynthesizer
	localVoice localSynthesizer
	resolver   backgroundResolver
	newEncoder EncoderFactory

	newComposer func(entities.RenderOptions) (render.Composer, error)

	scriptCfg       config.ScriptGenConfig
	ttsCfg          config.TTSConfig
	scriptRetryWait time.Duration

	baseOpts         entities.RenderOptions
	minArtifactBytes int64

	logger *zap.Logger
}

// NewService constructs the generation pipeline
func NewService(
	scripts scriptProvider,
	narration remoteSynthesizer,
	localVoice localSynthesizer,
	resolver backgroundResolver,
	newEncoder EncoderFactory,
	cfg *config.Config,
	logger *zap.Logger,
) *Service {
	opts := entities.DefaultRenderOptions()
	opts.WatermarkPath = cfg.Render.WatermarkPath

	return &Service{
		scripts:    scripts,
		narration:  narration,
		localVoice: localVoice,
		resolver:   resolver,
		newEncoder: newEncoder,
		newComposer: func(o entities.RenderOptions) (render.Composer, error) {
			return render.NewRasterComposer(o)
		},
		scriptCfg:        cfg.ScriptGen,
		ttsCfg:           cfg.TTS,
		scriptRetryWait:  2 * time.Second,
		baseOpts:         opts,
		minArtifactBytes: cfg.Render.MinArtifactBytes,
		logger:           logger,
	}
}

// Run executes one full generation session. Phases run strictly in order; no
// phase begins before the prior one settles. On any fatal error the run stops
// immediately and returns a typed failure tagged with the phase and key
// parameters — never a partially populated artifact.
func (s *Service) Run(ctx context.Context, req entities.GenerationRequest, onProgress ProgressFunc) (*entities.GenerationArtifact, error) {
	reporter := NewReporter(onProgress)

	// Phase 1: validation, before any remote call or resource allocation
	session, err := s.validate(req)
	if err != nil {
		return nil, err
	}
	reporter.Set(2, "Checking your request...")

	// Phase 2: connectivity probe with one extended retry for cold starts
	session.Phase = entities.PhaseConnectivity
	reporter.Set(5, "Waking up the generator...")
	if err := s.probe(jobcontext.WithPhase(ctx, string(session.Phase))); err != nil {
		return nil, apperrors.ErrGenConnectivity(scriptgen.ProviderName, err)
	}
	reporter.Set(10, "Service is ready")

	// Phase 3: script generation, one retry then fatal
	session.Phase = entities.PhaseScript
	reporter.Ramp(35, 20*time.Second, "Writing your script...")
	doc, err := s.generateScript(jobcontext.WithPhase(ctx, string(session.Phase)), req)
	reporter.StopRamp()
	if err != nil {
		return nil, apperrors.ErrGenScriptFailed(req.Language, scriptgen.ProviderName, err)
	}
	session.Script = doc

	// Phase 4: sanitation and segmentation
	session.Phase = entities.PhaseSanitation
	clean := Sanitize(doc.Script)
	session.Segments = Segment(clean)
	if len(session.Segments) == 0 {
		return nil, apperrors.ErrGenScriptFailed(req.Language, scriptgen.ProviderName, entities.ErrEmptyScript)
	}
	reporter.Set(38, "Script ready")

	// Phase 5: background resolution, never fatal
	session.Phase = entities.PhaseBackground
	reporter.Set(45, "Finding background visuals...")
	background := s.resolveBackground(jobcontext.WithPhase(ctx, string(session.Phase)), session)

	// Phase 6: narration synthesis, never fatal
	session.Phase = entities.PhaseNarration
	reporter.Ramp(70, 30*time.Second, "Recording the narration...")
	session.Audio = s.synthesize(jobcontext.WithPhase(ctx, string(session.Phase)), clean, req.VoiceGender)
	reporter.StopRamp()

	// Phase 7: composition and capture
	session.Phase = entities.PhaseComposition
	reporter.Set(75, "Rendering your video...")
	result, err := s.compose(jobcontext.WithPhase(ctx, string(session.Phase)), session, background)
	if err != nil {
		return nil, apperrors.ErrGenEncoderFailed(err)
	}
	reporter.Set(95, "Finishing up...")

	// Phase 8: artifact validation; an undersized result is an error, not a
	// success
	session.Phase = entities.PhaseArtifact
	size := int64(len(result.Video.Data))
	if size < s.minArtifactBytes {
		return nil, apperrors.ErrGenCorruptArtifact(size)
	}
	reporter.Set(100, "Your video is ready")

	estimated := entities.EstimateSpokenSeconds(clean)
	if limit := float64(session.Limits.MaxDurationSeconds); estimated > limit {
		estimated = limit
	}

	if s.logger != nil {
		s.logger.Info("✅ Generation session completed",
			zap.String("session_id", session.ID.String()),
			zap.Int64("artifact_bytes", size),
			zap.Float64("estimated_duration", estimated),
			zap.Bool("has_narration", session.Audio != nil),
			zap.Bool("truncated", result.Truncated),
		)
	}

	return &entities.GenerationArtifact{
		Data:                     result.Video.Data,
		SizeBytes:                size,
		EstimatedDurationSeconds: estimated,
		HasNarration:             session.Audio != nil,
		Watermarked:              session.Limits.WatermarkRequired,
		ContentType:              result.Video.ContentType,
	}, nil
}

// validate rejects bad input before anything remote happens
func (s *Service) validate(req entities.GenerationRequest) (*entities.GenerationSession, error) {
	if strings.TrimSpace(req.Idea) == "" {
		appErr := apperrors.ErrGenValidation("idea text must not be empty")
		appErr.Raw = entities.ErrEmptyIdea
		return nil, appErr
	}
	if req.Background != entities.BackgroundLibrary && req.Background != entities.BackgroundSearch {
		appErr := apperrors.ErrGenValidation("a background selection is required")
		appErr.Raw = entities.ErrMissingBackground
		return nil, appErr
	}
	if req.Background == entities.BackgroundLibrary && req.BackgroundRef == "" {
		return nil, apperrors.ErrGenValidation("a library background needs an asset reference")
	}

	// Tier limits are pinned now and stay immutable for the session; a tier
	// change mid-render must not alter an in-flight session
	return entities.NewGenerationSession(req, LimitsFor(req.Tier)), nil
}

// probe checks backend liveness. The first failure gets one more attempt with
// a longer timeout so a cold-started backend can come up.
func (s *Service) probe(ctx context.Context) error {
	policy := retry.Policy{
		MaxAttempts:     2,
		InitialInterval: s.scriptCfg.ProbeRetryWait,
		AttemptTimeout:  s.scriptCfg.ProbeTimeout,
		ExtendedTimeout: s.scriptCfg.ProbeTimeoutExt,
		Retryable:       retry.IsTransient,
	}
	return policy.Do(ctx, func(ctx context.Context) error {
		return s.scripts.Probe(ctx)
	})
}

// generateScript calls the script service with exactly one retry
func (s *Service) generateScript(ctx context.Context, req entities.GenerationRequest) (*entities.ScriptDocument, error) {
	var doc *entities.ScriptDocument
	policy := retry.Policy{
		MaxAttempts:     2,
		InitialInterval: s.scriptRetryWait,
		AttemptTimeout:  s.scriptCfg.RequestTimeout,
		Retryable:       retry.IsTransient,
	}
	err := policy.Do(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.scripts.GenerateScript(ctx, req.Idea, req.Language, req.Template)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// resolveBackground obtains background frames; any failure degrades to the
// procedural background rather than aborting the session
func (s *Service) resolveBackground(ctx context.Context, session *entities.GenerationSession) *render.Background {
	background, asset, err := s.resolver.Resolve(ctx, session.Request)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Background resolution failed, using procedural background",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}
		return nil
	}
	session.Asset = asset
	return background
}

// synthesize requests narration audio, falling back to the on-device engine.
// Both paths failing leaves the session silent; captions then pace themselves
// by word count.
func (s *Service) synthesize(ctx context.Context, text, voice string) *entities.NarrationAudio {
	if s.narration != nil && s.narration.Configured() {
		ttsCtx, cancel := context.WithTimeout(ctx, s.ttsCfg.RequestTimeout)
		audio, err := s.narration.Synthesize(ttsCtx, text, voice)
		cancel()
		if err == nil {
			return audio
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Remote narration failed, trying local synthesizer", zap.Error(err))
		}
	}

	if s.localVoice != nil && s.localVoice.Available() {
		audio, err := s.localVoice.Synthesize(ctx, text, voice)
		if err == nil {
			return audio
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Local narration failed, proceeding without audio", zap.Error(err))
		}
	}

	return nil
}

// compose runs the frame loop against a fresh encoder under the tier's
// duration cap
func (s *Service) compose(ctx context.Context, session *entities.GenerationSession, background *render.Background) (*render.Result, error) {
	opts := s.baseOpts
	opts.WatermarkEnabled = session.Limits.WatermarkRequired

	composer, err := s.newComposer(opts)
	if err != nil {
		return nil, err
	}

	audioDuration := 0.0
	if session.Audio != nil {
		audioDuration = session.Audio.DurationSeconds
	}
	schedule := render.BuildSchedule(session.Segments, audioDuration, opts.FPS)

	capture := render.NewCapture(composer, s.newEncoder(), s.logger)
	if session.Audio != nil {
		return capture.RunWithNarration(ctx, background, schedule, opts, session.Limits.MaxDurationSeconds, session.Audio)
	}
	return capture.Run(ctx, background, schedule, opts, session.Limits.MaxDurationSeconds)
}
