package sequencer

import (
	"math"
	"sync"
)

// PPQ is the tick resolution used for tick/millisecond conversions
// (pulses per quarter note).
const PPQ = 960

// Clamp bounds for timing configuration. Out-of-range values are clamped,
// never rejected - a bad UI input should degrade, not error.
const (
	MaxBPM        = 240.0
	MaxTimeSigVal = 256
)

// Timing is the single source of truth for "how long is one step right now".
// It converts {BPM, time signature, step count} into a step duration in
// milliseconds, cached and recomputed on every setter.
//
// The step count is deliberately independent from the time-signature
// numerator: the beats-per-measure implied by the signature are distributed
// evenly across however many steps the user chose.
type Timing struct {
	mu       sync.RWMutex
	bpm      float64
	sigNum   int
	sigDen   int
	numSteps int
	stepMs   float64 // cached; +Inf when bpm == 0
}

// NewTiming returns a Timing at 120 BPM, 4/4, 16 steps.
func NewTiming() *Timing {
	t := &Timing{
		bpm:      120,
		sigNum:   4,
		sigDen:   4,
		numSteps: 16,
	}
	t.recompute()
	return t
}

// recompute refreshes the cached step duration. Callers hold t.mu.
//
// stepMs = (60000/bpm) * (4/den) * num / steps
//
// A bpm of 0 is a valid frozen state: the duration becomes +Inf ("never
// fire") rather than a divide-by-zero fault.
func (t *Timing) recompute() {
	if t.bpm <= 0 {
		t.stepMs = math.Inf(1)
		return
	}
	beatMs := 60000.0 / t.bpm
	measureMs := beatMs * (4.0 / float64(t.sigDen)) * float64(t.sigNum)
	t.stepMs = measureMs / float64(t.numSteps)
}

// SetBPM clamps to [0, MaxBPM] and recomputes the step duration.
func (t *Timing) SetBPM(bpm float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if bpm < 0 || math.IsNaN(bpm) {
		bpm = 0
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	t.bpm = bpm
	t.recompute()
}

// SetTimeSignature accepts any positive numerator/denominator - denominators
// are not restricted to powers of two. Both are clamped to [1, MaxTimeSigVal].
func (t *Timing) SetTimeSignature(num, den int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sigNum = clampSig(num)
	t.sigDen = clampSig(den)
	t.recompute()
}

// SetStepCount updates the steps-per-measure. It does NOT reinitialize step
// parameters - resizing the pattern store is the caller's responsibility.
func (t *Timing) SetStepCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n < 1 {
		n = 1
	}
	t.numSteps = n
	t.recompute()
}

// StepDuration returns the cached step duration in milliseconds.
// +Inf means "never fire"; schedulers must check before scheduling.
func (t *Timing) StepDuration() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stepMs
}

// BPM returns the current tempo.
func (t *Timing) BPM() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bpm
}

// TimeSignature returns the current numerator and denominator.
func (t *Timing) TimeSignature() (num, den int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sigNum, t.sigDen
}

// StepCount returns the current steps-per-measure.
func (t *Timing) StepCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.numSteps
}

func clampSig(v int) int {
	if v < 1 {
		return 1
	}
	if v > MaxTimeSigVal {
		return MaxTimeSigVal
	}
	return v
}

// MsToTicks converts milliseconds to ticks at the given tempo.
// Returns 0 when bpm is 0 (no musical time passes in a frozen field).
func MsToTicks(ms, bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	quarterMs := 60000.0 / bpm
	return ms / quarterMs * PPQ
}

// TicksToMs converts ticks to milliseconds at the given tempo.
// Returns +Inf when bpm is 0.
func TicksToMs(ticks, bpm float64) float64 {
	if bpm <= 0 {
		return math.Inf(1)
	}
	quarterMs := 60000.0 / bpm
	return ticks / PPQ * quarterMs
}
