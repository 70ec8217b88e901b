package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// LocalSynthesizer shells out to an espeak-ng style binary as the on-device
// fallback when the remote synthesis service is unavailable. Disabled when no
// binary is configured.
type LocalSynthesizer struct {
	binary  string
	workDir string
}

// NewLocalSynthesizer creates the fallback synthesizer. An empty binary
// disables it.
func NewLocalSynthesizer(binary, workDir string) *LocalSynthesizer {
	return &LocalSynthesizer{binary: binary, workDir: workDir}
}

// Available reports whether the fallback can run at all
func (l *LocalSynthesizer) Available() bool {
	if l.binary == "" {
		return false
	}
	_, err := exec.LookPath(l.binary)
	return err == nil
}

// Synthesize renders text to a WAV file via the local binary and reads it back
func (l *LocalSynthesizer) Synthesize(ctx context.Context, text, voice string) (*entities.NarrationAudio, error) {
	if !l.Available() {
		return nil, fmt.Errorf("local synthesizer not available")
	}

	out := filepath.Join(l.workDir, fmt.Sprintf("narration-%d.wav", os.Getpid()))
	defer os.Remove(out)

	cmd := exec.CommandContext(ctx, l.binary, "-v", espeakVoice(voice), "-w", out, text)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("local synthesis failed: %w: %s", err, output)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("failed to read synthesized audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("local synthesis produced empty audio")
	}

	return &entities.NarrationAudio{
		Data:      data,
		SizeBytes: int64(len(data)),
		Format:    "wav",
	}, nil
}

// espeakVoice maps the session's voice gender to an espeak voice variant
func espeakVoice(voice string) string {
	switch voice {
	case "female":
		return "en+f3"
	case "male":
		return "en+m3"
	}
	return "en"
}
