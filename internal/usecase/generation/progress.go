package generation

import (
	"sync"
	"time"
)

// ProgressFunc receives every progress update: a 0-100 percentage and a
// human-readable status message.
type ProgressFunc func(percent int, message string)

// Reporter tracks pipeline progress for one session. The percentage is
// monotonically non-decreasing across discrete jumps and smoothed ramps; a
// fallback path can therefore never make progress appear to move backwards.
// One Reporter belongs to exactly one session and is safe for concurrent use
// by the ramp goroutine and the orchestrator.
type Reporter struct {
	mu       sync.Mutex
	percent  int
	message  string
	onUpdate ProgressFunc

	rampStop   chan struct{}
	rampTarget int

	tickInterval time.Duration

	tipIndex int
}

// waitingTips rotate during long remote calls. They are reassurance copy,
// independent of the actual phase status message.
var waitingTips = []string{
	"Good hooks name a concrete outcome in the first sentence",
	"Vertical videos under 60 seconds get the most replays",
	"One idea per video beats three ideas crammed together",
	"Captions keep viewers who watch with sound off",
}

// NewReporter creates a reporter that forwards updates through onUpdate.
// A nil hook is allowed; progress is then only readable via Percent.
func NewReporter(onUpdate ProgressFunc) *Reporter {
	return &Reporter{
		onUpdate:     onUpdate,
		tickInterval: 200 * time.Millisecond,
	}
}

// Set jumps directly to a target percentage with a status message. Targets
// below the current percentage only update the message.
func (r *Reporter) Set(target int, message string) {
	r.mu.Lock()
	r.stopRampLocked(false)
	r.advanceLocked(target, message)
	r.mu.Unlock()
}

// Ramp interpolates from the current percentage to target linearly over the
// nominal duration, ticking periodically so the caller's UI never appears
// frozen during a long remote call with no native progress signal.
func (r *Reporter) Ramp(target int, over time.Duration, message string) {
	r.mu.Lock()
	r.stopRampLocked(false)

	start := r.percent
	if target <= start || over <= 0 {
		r.advanceLocked(target, message)
		r.mu.Unlock()
		return
	}
	r.advanceLocked(start, message)

	stop := make(chan struct{})
	r.rampStop = stop
	r.rampTarget = target
	interval := r.tickInterval
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		began := time.Now()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				frac := float64(time.Since(began)) / float64(over)
				if frac > 1 {
					frac = 1
				}
				current := start + int(frac*float64(target-start))

				r.mu.Lock()
				if r.rampStop != stop {
					r.mu.Unlock()
					return
				}
				r.advanceLocked(current, message)
				done := frac >= 1
				if done {
					r.rampStop = nil
				}
				r.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}

// StopRamp ends a running ramp and snaps the percentage to the ramp's target.
// Called when the awaited operation completes before the nominal duration.
func (r *Reporter) StopRamp() {
	r.mu.Lock()
	r.stopRampLocked(true)
	r.mu.Unlock()
}

// Percent returns the current percentage
func (r *Reporter) Percent() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.percent
}

// Message returns the current status message
func (r *Reporter) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.message
}

// NextTip returns the next rotating wait tip. The rotation is decoupled from
// progress updates and never feeds into the percentage.
func (r *Reporter) NextTip() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tip := waitingTips[r.tipIndex%len(waitingTips)]
	r.tipIndex++
	return tip
}

func (r *Reporter) stopRampLocked(snap bool) {
	if r.rampStop == nil {
		return
	}
	close(r.rampStop)
	if snap {
		r.advanceLocked(r.rampTarget, r.message)
	}
	r.rampStop = nil
}

// advanceLocked applies the monotonicity rule: the percentage only moves
// forward, the message always refreshes
func (r *Reporter) advanceLocked(target int, message string) {
	if target > 100 {
		target = 100
	}
	if target > r.percent {
		r.percent = target
	}
	if message != "" {
		r.message = message
	}
	if r.onUpdate != nil {
		r.onUpdate(r.percent, r.message)
	}
}
