package generation

import (
	"regexp"
	"strings"

	"github.com/minhducdev/clipforge/internal/domain/entities"
)

// Script services decorate narration text with authoring artifacts: bracketed
// section markers and leading role labels. Those must never be spoken or shown
// as captions.
var (
	bracketMarkerRe = regexp.MustCompile(`\[[^\]\n]*\]`)
	roleLabelRe     = regexp.MustCompile(`(?im)^\s*(hook|intro|body|outro|cta|narrator|scene|section|title|conclusion)\s*[0-9]*\s*:\s*`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	sentenceEndRe   = regexp.MustCompile(`[.!?]+`)
)

// Sanitize strips section markers and role labels from raw narration text and
// collapses runs of blank lines. Idempotent: sanitizing already-sanitized text
// returns it unchanged.
func Sanitize(text string) string {
	out := bracketMarkerRe.ReplaceAllString(text, "")
	out = roleLabelRe.ReplaceAllString(out, "")
	out = blankRunRe.ReplaceAllString(out, "\n\n")

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Segment splits sanitized narration text into caption-sized units on sentence
// boundaries. Candidates whose trimmed text is too short are discarded as
// noise. Each segment carries its word count and estimated display duration.
func Segment(text string) []entities.CaptionSegment {
	parts := splitSentences(text)

	segments := make([]entities.CaptionSegment, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if len(trimmed) <= entities.MinSegmentChars {
			continue
		}
		segments = append(segments, entities.CaptionSegment{
			Text:    trimmed,
			Words:   entities.CountWords(trimmed),
			Seconds: entities.EstimateSpokenSeconds(trimmed),
		})
	}
	return segments
}

// splitSentences cuts text on terminal punctuation, keeping the punctuation
// with its sentence. Newlines also separate candidates so list-style scripts
// without punctuation still segment.
func splitSentences(text string) []string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		rest := line
		for {
			loc := sentenceEndRe.FindStringIndex(rest)
			if loc == nil {
				break
			}
			parts = append(parts, rest[:loc[1]])
			rest = rest[loc[1]:]
		}
		if strings.TrimSpace(rest) != "" {
			parts = append(parts, rest)
		}
	}
	return parts
}
