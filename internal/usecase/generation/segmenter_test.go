package generation

import (
	"strings"
	"testing"
)

func TestSanitize_StripsSectionMarkers(t *testing.T) {
	raw := "[HOOK]\nDid you know this one weird trick?\n[BODY]\nIt changed everything for me."
	clean := Sanitize(raw)

	if strings.Contains(clean, "[") || strings.Contains(clean, "]") {
		t.Errorf("bracketed markers survived sanitation: %q", clean)
	}
	if !strings.Contains(clean, "Did you know this one weird trick?") {
		t.Errorf("speech content was lost: %q", clean)
	}
}

func TestSanitize_StripsRoleLabels(t *testing.T) {
	raw := "Hook: Start strong with a question.\nNarrator: Then deliver the payoff.\nCTA: Follow for more."
	clean := Sanitize(raw)

	for _, label := range []string{"Hook:", "Narrator:", "CTA:"} {
		if strings.Contains(clean, label) {
			t.Errorf("role label %q survived sanitation: %q", label, clean)
		}
	}
	if !strings.Contains(clean, "Start strong with a question.") {
		t.Errorf("speech content was lost: %q", clean)
	}
}

func TestSanitize_CollapsesBlankRuns(t *testing.T) {
	raw := "First paragraph.\n\n\n\n\nSecond paragraph."
	clean := Sanitize(raw)

	if strings.Contains(clean, "\n\n\n") {
		t.Errorf("blank-line run survived: %q", clean)
	}
	if !strings.Contains(clean, "First paragraph.") || !strings.Contains(clean, "Second paragraph.") {
		t.Errorf("content was lost: %q", clean)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	raw := "[Scene 1] Hook: An opening line.\n\n\n\nOutro: A closing line."
	once := Sanitize(raw)
	twice := Sanitize(once)

	if once != twice {
		t.Errorf("sanitize not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestSegment_SplitsOnSentenceBoundaries(t *testing.T) {
	text := "This is the first sentence. And here comes a second one! Does a question also count?"
	segments := Segment(text)

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].Text != "This is the first sentence." {
		t.Errorf("first segment = %q", segments[0].Text)
	}
}

func TestSegment_DiscardsShortCandidates(t *testing.T) {
	text := "Yes. No. Okay now. This sentence is clearly long enough to keep."
	segments := Segment(text)

	for _, seg := range segments {
		if len(strings.TrimSpace(seg.Text)) <= 10 {
			t.Errorf("short candidate %q was not discarded", seg.Text)
		}
	}
	if len(segments) != 1 {
		t.Errorf("expected 1 surviving segment, got %d: %+v", len(segments), segments)
	}
}

func TestSegment_TimingFromWordCount(t *testing.T) {
	// 5 words at 2.5 words/second is 2 seconds
	segments := Segment("These five words take seconds.")
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Words != 5 {
		t.Errorf("words = %d, want 5", segments[0].Words)
	}
	if segments[0].Seconds != 2.0 {
		t.Errorf("seconds = %v, want 2.0", segments[0].Seconds)
	}
}

func TestSegment_HandlesUnpunctuatedLines(t *testing.T) {
	text := "a full line without terminal punctuation\nanother list style line here"
	segments := Segment(text)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segments), segments)
	}
}
