package generation

import (
	"sync"
	"testing"
	"time"
)

// recorder collects every reported percentage in order
type recorder struct {
	mu       sync.Mutex
	percents []int
}

func (r *recorder) hook(percent int, message string) {
	r.mu.Lock()
	r.percents = append(r.percents, percent)
	r.mu.Unlock()
}

func (r *recorder) assertMonotone(t *testing.T) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i < len(r.percents); i++ {
		if r.percents[i] < r.percents[i-1] {
			t.Fatalf("progress regressed: %d -> %d at index %d", r.percents[i-1], r.percents[i], i)
		}
	}
}

func TestReporter_SetIsMonotone(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec.hook)

	r.Set(10, "starting")
	r.Set(40, "working")
	r.Set(25, "fallback path") // lower target must not regress
	r.Set(60, "almost there")

	if got := r.Percent(); got != 60 {
		t.Errorf("percent = %d, want 60", got)
	}
	rec.assertMonotone(t)

	// The lower target still refreshed the message
	r.Set(5, "late message")
	if r.Message() != "late message" {
		t.Errorf("message = %q, want refresh even without percent movement", r.Message())
	}
}

func TestReporter_RampReachesTarget(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec.hook)
	r.tickInterval = 2 * time.Millisecond

	r.Set(10, "start")
	r.Ramp(40, 30*time.Millisecond, "long remote call")

	deadline := time.Now().Add(time.Second)
	for r.Percent() < 40 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if got := r.Percent(); got != 40 {
		t.Errorf("ramp never reached target, percent = %d", got)
	}
	rec.assertMonotone(t)
}

func TestReporter_StopRampSnapsToTarget(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec.hook)
	r.tickInterval = 2 * time.Millisecond

	r.Ramp(50, 10*time.Second, "slow remote call")
	time.Sleep(10 * time.Millisecond)
	r.StopRamp()

	if got := r.Percent(); got != 50 {
		t.Errorf("stop must snap to the ramp target, percent = %d", got)
	}
	rec.assertMonotone(t)
}

func TestReporter_SetDuringRampStaysMonotone(t *testing.T) {
	rec := &recorder{}
	r := NewReporter(rec.hook)
	r.tickInterval = 2 * time.Millisecond

	r.Ramp(90, 10*time.Second, "slow phase")
	time.Sleep(10 * time.Millisecond)
	r.Set(20, "next phase")
	time.Sleep(20 * time.Millisecond)

	rec.assertMonotone(t)
}

func TestReporter_TipsRotateIndependently(t *testing.T) {
	r := NewReporter(nil)

	first := r.NextTip()
	second := r.NextTip()
	if first == second {
		t.Error("tips should rotate")
	}
	if r.Percent() != 0 {
		t.Error("tips must never move the progress percentage")
	}

	// Full rotation wraps around
	for i := 0; i < len(waitingTips)-2; i++ {
		r.NextTip()
	}
	if again := r.NextTip(); again != first {
		t.Errorf("rotation did not wrap: got %q, want %q", again, first)
	}
}
