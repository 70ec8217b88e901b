package generation

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	apperrors "github.com/minhducdev/clipforge/errors"
	"github.com/minhducdev/clipforge/internal/domain/entities"
	"github.com/minhducdev/clipforge/internal/render"
	"github.com/minhducdev/clipforge/pkg/config"
)

type fakeScripts struct {
	probeErrs   []error
	probeCalls  int
	scriptErrs  []error
	scriptCalls int
	script      string
}

func (f *fakeScripts) Probe(ctx context.Context) error {
	f.probeCalls++
	if f.probeCalls <= len(f.probeErrs) {
		return f.probeErrs[f.probeCalls-1]
	}
	return nil
}

func (f *fakeScripts) GenerateScript(ctx context.Context, idea, language, template string) (*entities.ScriptDocument, error) {
	f.scriptCalls++
	if f.scriptCalls <= len(f.scriptErrs) {
		return nil, f.scriptErrs[f.scriptCalls-1]
	}
	return &entities.ScriptDocument{Title: "Test", Script: f.script}, nil
}

type fakeTTS struct {
	configured bool
	err        error
	audio      *entities.NarrationAudio
	calls      int
}

func (f *fakeTTS) Configured() bool { return f.configured }

func (f *fakeTTS) Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakeLocalTTS struct {
	available bool
	audio     *entities.NarrationAudio
}

func (f *fakeLocalTTS) Available() bool { return f.available }

func (f *fakeLocalTTS) Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error) {
	return f.audio, nil
}

type fakeBackgrounds struct {
	background *render.Background
	asset      *entities.MediaAsset
	err        error
}

func (f *fakeBackgrounds) Resolve(ctx context.Context, req entities.GenerationRequest) (*render.Background, *entities.MediaAsset, error) {
	return f.background, f.asset, f.err
}

type countingEncoder struct {
	frames    int
	output    []byte
	narration *entities.NarrationAudio
}

func (e *countingEncoder) Start(ctx context.Context, opts entities.RenderOptions, narration *entities.NarrationAudio) error {
	e.narration = narration
	return nil
}

func (e *countingEncoder) WriteFrame(img image.Image) error {
	e.frames++
	return nil
}

func (e *countingEncoder) Close() (*render.EncodedVideo, error) {
	out := e.output
	if out == nil {
		out = make([]byte, 128*1024)
	}
	return &render.EncodedVideo{Data: out, ContentType: "video/webm"}, nil
}

type stubComposer struct{}

func (stubComposer) Compose(bg image.Image, frameIndex int, caption string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func newTestService(scripts *fakeScripts, tts *fakeTTS, local *fakeLocalTTS, bgs backgroundResolver, enc *countingEncoder) *Service {
	opts := entities.DefaultRenderOptions()
	opts.FPS = 5

	return &Service{
		scripts:    scripts,
		narration:  tts,
		localVoice: local,
		resolver:   bgs,
		newEncoder: func() render.Encoder { return enc },
		newComposer: func(o entities.RenderOptions) (render.Composer, error) {
			return stubComposer{}, nil
		},
		scriptCfg: config.ScriptGenConfig{
			ProbeTimeout:    200 * time.Millisecond,
			ProbeRetryWait:  time.Millisecond,
			ProbeTimeoutExt: 200 * time.Millisecond,
			RequestTimeout:  200 * time.Millisecond,
		},
		ttsCfg:           config.TTSConfig{RequestTimeout: 200 * time.Millisecond},
		scriptRetryWait:  time.Millisecond,
		baseOpts:         opts,
		minArtifactBytes: 4096,
	}
}

func testRequest() entities.GenerationRequest {
	return entities.GenerationRequest{
		Idea:          "a short success story",
		Language:      "en",
		Template:      "motivation",
		VoiceGender:   "female",
		Background:    entities.BackgroundSearch,
		BackgroundRef: "success",
		Tier:          entities.TierFree,
	}
}

// longScript builds narration text that speaks for roughly the given number
// of seconds at the fixed speaking rate
func longScript(seconds float64) string {
	words := int(seconds * entities.WordsPerSecond)
	var b strings.Builder
	for i := 0; i < words; i += 10 {
		b.WriteString("Every single day brings another chance to start over completely fresh. ")
	}
	return b.String()
}

func assertCode(t *testing.T, err error, want apperrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(apperrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != want {
		t.Fatalf("error code = %s, want %s", appErr.Code, want)
	}
}

func TestRun_RejectsEmptyIdea(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	req := testRequest()
	req.Idea = "   "
	_, err := svc.Run(context.Background(), req, nil)

	assertCode(t, err, apperrors.ErrorCode_GEN_VALIDATION)
	if !errors.Is(err, entities.ErrEmptyIdea) {
		t.Errorf("error should unwrap to ErrEmptyIdea, got %v", err)
	}
	if scripts.probeCalls != 0 {
		t.Errorf("validation failure must not reach the network, probe calls = %d", scripts.probeCalls)
	}
}

func TestRun_RejectsMissingBackgroundSelection(t *testing.T) {
	svc := newTestService(&fakeScripts{script: longScript(20)}, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	req := testRequest()
	req.Background = ""
	_, err := svc.Run(context.Background(), req, nil)
	assertCode(t, err, apperrors.ErrorCode_GEN_VALIDATION)
	if !errors.Is(err, entities.ErrMissingBackground) {
		t.Errorf("error should unwrap to ErrMissingBackground, got %v", err)
	}
}

func TestRun_ConnectivityFatalAfterExtendedRetry(t *testing.T) {
	scripts := &fakeScripts{
		probeErrs: []error{errors.New("connection refused"), errors.New("connection refused")},
		script:    longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	_, err := svc.Run(context.Background(), testRequest(), nil)

	assertCode(t, err, apperrors.ErrorCode_GEN_CONNECTIVITY)
	if scripts.probeCalls != 2 {
		t.Errorf("probe calls = %d, want 2 (one retry with extended timeout)", scripts.probeCalls)
	}
	if scripts.scriptCalls != 0 {
		t.Errorf("script service must not be called after connectivity failure, calls = %d", scripts.scriptCalls)
	}
}

func TestRun_ProbeRecoversOnSecondAttempt(t *testing.T) {
	scripts := &fakeScripts{
		probeErrs: []error{errors.New("connection refused")},
		script:    longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	artifact, err := svc.Run(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if artifact == nil || len(artifact.Data) == 0 {
		t.Fatal("expected an artifact")
	}
	if scripts.probeCalls != 2 {
		t.Errorf("probe calls = %d, want 2", scripts.probeCalls)
	}
}

func TestRun_ScriptRetriesExactlyOnce(t *testing.T) {
	scripts := &fakeScripts{
		scriptErrs: []error{errors.New("status 500")},
		script:     longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	if _, err := svc.Run(context.Background(), testRequest(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if scripts.scriptCalls != 2 {
		t.Errorf("script calls = %d, want 2", scripts.scriptCalls)
	}
}

func TestRun_ScriptFatalAfterSecondFailure(t *testing.T) {
	scripts := &fakeScripts{
		scriptErrs: []error{errors.New("status 500"), errors.New("status 500")},
		script:     longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	_, err := svc.Run(context.Background(), testRequest(), nil)

	assertCode(t, err, apperrors.ErrorCode_GEN_SCRIPT_FAILED)
	if scripts.scriptCalls != 2 {
		t.Errorf("script calls = %d, want exactly 2", scripts.scriptCalls)
	}
}

func TestRun_ScriptPermanentErrorNotRetried(t *testing.T) {
	scripts := &fakeScripts{
		scriptErrs: []error{errors.New("invalid api key")},
		script:     longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	_, err := svc.Run(context.Background(), testRequest(), nil)

	assertCode(t, err, apperrors.ErrorCode_GEN_SCRIPT_FAILED)
	if scripts.scriptCalls != 1 {
		t.Errorf("script calls = %d, want 1 (auth failure is not worth a retry)", scripts.scriptCalls)
	}
}

func TestRun_NarrationFailureProducesSilentArtifact(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	tts := &fakeTTS{configured: true, err: errors.New("context deadline exceeded")}
	svc := newTestService(scripts, tts, &fakeLocalTTS{available: false}, &fakeBackgrounds{}, &countingEncoder{})

	artifact, err := svc.Run(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("narration failure must not be fatal: %v", err)
	}
	if artifact.HasNarration {
		t.Error("artifact should report no narration")
	}
	if tts.calls != 1 {
		t.Errorf("tts calls = %d, want 1", tts.calls)
	}
}

func TestRun_LocalSynthesizerFallback(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	tts := &fakeTTS{configured: true, err: errors.New("service unavailable")}
	local := &fakeLocalTTS{
		available: true,
		audio:     &entities.NarrationAudio{Data: []byte("wav"), Format: "wav", DurationSeconds: 20},
	}
	enc := &countingEncoder{}
	svc := newTestService(scripts, tts, local, &fakeBackgrounds{}, enc)

	artifact, err := svc.Run(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !artifact.HasNarration {
		t.Error("local fallback audio should count as narration")
	}
	if enc.narration == nil {
		t.Error("narration should reach the encoder for muxing")
	}
}

func TestRun_CorruptArtifactRejected(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	enc := &countingEncoder{output: make([]byte, 200)}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, enc)

	_, err := svc.Run(context.Background(), testRequest(), nil)
	assertCode(t, err, apperrors.ErrorCode_GEN_CORRUPT_ARTIFACT)
}

func TestRun_FreeTierTruncatesAndWatermarks(t *testing.T) {
	// 90 seconds of narration against the free tier's 60 second cap
	scripts := &fakeScripts{script: longScript(90)}
	enc := &countingEncoder{}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, enc)

	artifact, err := svc.Run(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	budget := 60 * svc.baseOpts.FPS
	if enc.frames > budget {
		t.Errorf("frames = %d, exceeds the 60s cap of %d", enc.frames, budget)
	}
	if !artifact.Watermarked {
		t.Error("free tier artifact must be watermarked")
	}
	if artifact.EstimatedDurationSeconds > 60 {
		t.Errorf("estimated duration = %v, must not exceed the cap", artifact.EstimatedDurationSeconds)
	}
}

func TestRun_BackgroundFailureIsNonFatal(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	bgs := &fakeBackgrounds{err: entities.ErrNoBackgroundMedia}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, bgs, &countingEncoder{})

	artifact, err := svc.Run(context.Background(), testRequest(), nil)
	if err != nil {
		t.Fatalf("background failure must degrade, not abort: %v", err)
	}
	if len(artifact.Data) == 0 {
		t.Fatal("expected an artifact")
	}
}

func TestRun_ProgressIsMonotoneAndCompletes(t *testing.T) {
	scripts := &fakeScripts{script: longScript(20)}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	var percents []int
	onProgress := func(percent int, message string) {
		percents = append(percents, percent)
	}

	if _, err := svc.Run(context.Background(), testRequest(), onProgress); err != nil {
		t.Fatalf("run: %v", err)
	}

	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress regressed: %d -> %d", percents[i-1], percents[i])
		}
	}
	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Errorf("final progress should be 100, got %v", percents)
	}
}

func TestRun_ErrorCarriesPhaseContext(t *testing.T) {
	scripts := &fakeScripts{
		scriptErrs: []error{errors.New("status 500"), errors.New("status 500")},
		script:     longScript(20),
	}
	svc := newTestService(scripts, &fakeTTS{}, &fakeLocalTTS{}, &fakeBackgrounds{}, &countingEncoder{})

	_, err := svc.Run(context.Background(), testRequest(), nil)
	appErr := err.(apperrors.AppError)

	if appErr.Details["phase"] != "script" {
		t.Errorf("phase detail = %q, want script", appErr.Details["phase"])
	}
	if appErr.Details["language"] != "en" {
		t.Errorf("language detail = %q, want en", appErr.Details["language"])
	}
	if appErr.Details["provider"] == "" {
		t.Error("provider detail should be set")
	}
	if fmt.Sprintf("%v", appErr) == "" {
		t.Error("error must render a message")
	}
}
