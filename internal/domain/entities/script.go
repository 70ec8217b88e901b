package entities

import "strings"

// WordsPerSecond is the speaking-rate constant used for every duration
// estimate in the pipeline: per-segment caption pacing when no narration
// audio exists, and the artifact's reported spoken duration.
const WordsPerSecond = 2.5

// MinSegmentChars is the floor below which a trimmed sentence candidate is
// discarded as noise rather than shown as a caption.
const MinSegmentChars = 10

// ScriptDocument is the output of the script service
type ScriptDocument struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Script      string   `json:"script"` // full narration text, sanitized before use
	Tags        []string `json:"tags"`
	Hashtags    []string `json:"hashtags"`
}

// CaptionSegment is one caption-sized slice of the narration with its own
// display timing
type CaptionSegment struct {
	Text    string
	Words   int
	Seconds float64 // estimated display duration at WordsPerSecond
}

// CountWords returns the number of whitespace-separated words in text
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateSpokenSeconds estimates how long text takes to speak at the fixed
// speaking rate
func EstimateSpokenSeconds(text string) float64 {
	words := CountWords(text)
	if words == 0 {
		return 0
	}
	return float64(words) / WordsPerSecond
}
