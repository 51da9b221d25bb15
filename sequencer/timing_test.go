package sequencer

import (
	"math"
	"testing"
)

const eps = 1e-9

func newTestTiming(bpm float64, num, den, steps int) *Timing {
	t := NewTiming()
	t.SetBPM(bpm)
	t.SetTimeSignature(num, den)
	t.SetStepCount(steps)
	return t
}

func TestStepDurationFormula(t *testing.T) {
	cases := []struct {
		bpm       float64
		num, den  int
		steps     int
		wantMs    float64
	}{
		{120, 4, 4, 4, 500},
		{60, 4, 4, 4, 1000},
		{240, 4, 4, 4, 250},
		{120, 4, 4, 16, 125},
		{120, 7, 8, 7, 250}, // 7/8 at 120: 250ms eighths spread over 7 steps
		{120, 4, 5, 4, 400}, // non-power-of-two denominator
	}
	for _, c := range cases {
		tm := newTestTiming(c.bpm, c.num, c.den, c.steps)
		got := tm.StepDuration()
		if math.Abs(got-c.wantMs) > eps {
			t.Errorf("bpm=%v %d/%d steps=%d: got %v ms, want %v",
				c.bpm, c.num, c.den, c.steps, got, c.wantMs)
		}
	}
}

func TestDenominatorScalingHalvesDuration(t *testing.T) {
	tm := newTestTiming(120, 4, 4, 8)
	base := tm.StepDuration()
	tm.SetTimeSignature(4, 8)
	if got := tm.StepDuration(); math.Abs(got-base/2) > eps {
		t.Errorf("4/4 -> 4/8: got %v, want %v", got, base/2)
	}
}

func TestStepCountIndependentOfNumerator(t *testing.T) {
	tm := newTestTiming(120, 4, 4, 4)
	base := tm.StepDuration()
	tm.SetStepCount(8)
	if got := tm.StepDuration(); math.Abs(got-base/2) > eps {
		t.Errorf("doubling steps: got %v, want %v", got, base/2)
	}
	// Signature untouched
	num, den := tm.TimeSignature()
	if num != 4 || den != 4 {
		t.Errorf("signature changed: %d/%d", num, den)
	}
}

func TestZeroBPMYieldsInfiniteDuration(t *testing.T) {
	tm := newTestTiming(0, 4, 4, 16)
	if got := tm.StepDuration(); !math.IsInf(got, 1) {
		t.Errorf("bpm=0: got %v, want +Inf", got)
	}
	// Raising the tempo recovers
	tm.SetBPM(120)
	if got := tm.StepDuration(); math.IsInf(got, 1) {
		t.Errorf("bpm=120 after 0: still infinite")
	}
}

func TestBPMClamping(t *testing.T) {
	tm := NewTiming()
	tm.SetBPM(-10)
	if got := tm.BPM(); got != 0 {
		t.Errorf("negative bpm: got %v, want 0", got)
	}
	tm.SetBPM(999)
	if got := tm.BPM(); got != MaxBPM {
		t.Errorf("huge bpm: got %v, want %v", got, MaxBPM)
	}
}

func TestTimeSignatureClamping(t *testing.T) {
	tm := NewTiming()
	tm.SetTimeSignature(0, -3)
	num, den := tm.TimeSignature()
	if num != 1 || den != 1 {
		t.Errorf("got %d/%d, want 1/1", num, den)
	}
	tm.SetTimeSignature(1000, 1000)
	num, den = tm.TimeSignature()
	if num != MaxTimeSigVal || den != MaxTimeSigVal {
		t.Errorf("got %d/%d, want %d/%d", num, den, MaxTimeSigVal, MaxTimeSigVal)
	}
}

func TestTickConversions(t *testing.T) {
	// At 120 BPM a quarter note is 500ms, which is exactly PPQ ticks.
	if got := MsToTicks(500, 120); math.Abs(got-PPQ) > eps {
		t.Errorf("MsToTicks(500,120): got %v, want %v", got, float64(PPQ))
	}
	if got := TicksToMs(PPQ, 120); math.Abs(got-500) > eps {
		t.Errorf("TicksToMs(PPQ,120): got %v, want 500", got)
	}

	// Round trip
	ms := 123.456
	if got := TicksToMs(MsToTicks(ms, 93.7), 93.7); math.Abs(got-ms) > 1e-6 {
		t.Errorf("round trip: got %v, want %v", got, ms)
	}

	// Frozen tempo
	if got := MsToTicks(500, 0); got != 0 {
		t.Errorf("MsToTicks at bpm=0: got %v, want 0", got)
	}
	if got := TicksToMs(960, 0); !math.IsInf(got, 1) {
		t.Errorf("TicksToMs at bpm=0: got %v, want +Inf", got)
	}
}
