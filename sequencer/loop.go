package sequencer

import (
	"math"
	"sync"
	"time"

	"noisesphere/debug"
	"noisesphere/midi"
)

// Noise-to-pitch output range, roughly C0-C6.
const (
	noteFloor = 12
	noteCeil  = 84
)

// defaultVelocity is the flat fallback when a step has no override and no
// usable noise gradient.
const defaultVelocity = 80

// gateRatio shortens every sounding duration slightly so back-to-back
// identical pitches don't get swallowed by overlapping off/on on some synths.
const gateRatio = 0.95

// retryInterval is how often a running sequencer re-checks the tempo while
// frozen at BPM 0, so raising the tempo resumes playback without a restart.
const retryInterval = 100 * time.Millisecond

// Sampler returns one noise value per step index, nominally in [0,1].
// Called at most once per scheduling pass. A short or nil result renders the
// missing steps silent.
type Sampler interface {
	Sample() []float64
}

// Quantizer maps raw notes and scale degrees to final MIDI notes.
// Quantize must be the identity when quantization is disabled.
type Quantizer interface {
	Quantize(raw int) int
	DegreeToNote(degree int) int
	Enabled() bool
}

// Callbacks for visual/tracker consumers. All fire from the scheduling
// goroutine; keep them fast and non-blocking.
type (
	NoteOnFunc  func(note, velocity uint8, at time.Time, step int)
	NoteOffFunc func(note uint8, at time.Time, step int)
	StepFunc    func(step int)
)

// Sequencer is the core state machine: Stopped <-> Running, nothing else.
// Each measure it samples the noise field once, walks the pattern, and emits
// timestamped note-on/note-off pairs to the sink. It is driven by a single
// self-rescheduling timer, so exactly one scheduling pass is ever in flight.
type Sequencer struct {
	timing  *Timing
	pattern *Pattern
	sampler Sampler
	quant   Quantizer
	sink    midi.Sink

	// Channel 0-15, OR'd into the status byte.
	Channel uint8

	OnNoteOn     NoteOnFunc
	OnNoteOff    NoteOffFunc
	OnStepChange StepFunc

	mu         sync.Mutex
	running    bool
	stepIndex  int
	cycleStart time.Time
	timer      *time.Timer
}

// New wires a sequencer to its collaborators. None may be nil except the
// callbacks.
func New(timing *Timing, pattern *Pattern, sampler Sampler, quant Quantizer, sink midi.Sink) *Sequencer {
	return &Sequencer{
		timing:  timing,
		pattern: pattern,
		sampler: sampler,
		quant:   quant,
		sink:    sink,
	}
}

// Timing returns the timing configuration this sequencer schedules from.
func (s *Sequencer) Timing() *Timing { return s.timing }

// Pattern returns the step parameter store this sequencer reads.
func (s *Sequencer) Pattern() *Pattern { return s.pattern }

// Running reports transport state.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start resets to step 0 and begins scheduling. Calling Start while already
// running is a no-op.
func (s *Sequencer) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stepIndex = 0
	s.mu.Unlock()

	debug.Log("seq", "start")
	s.cycle()
}

// Stop cancels the pending timer and resets to step 0. Notes already emitted
// with future timestamps are not retracted. Calling Stop while stopped is a
// no-op.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.stepIndex = 0
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	debug.Log("seq", "stop")
}

// cycle runs one scheduling pass and arms the timer for the next measure.
// The step duration is recomputed fresh each pass: tempo or signature
// changes take effect on the next measure boundary, never retroactively.
func (s *Sequencer) cycle() {
	now := time.Now()

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cycleStart = now
	s.mu.Unlock()

	cycleMs := s.schedulePass(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	delay := retryInterval // frozen at BPM 0: poll for a tempo change
	if !math.IsInf(cycleMs, 1) {
		delay = time.Duration(cycleMs * float64(time.Millisecond))
	}
	s.timer = time.AfterFunc(delay, s.cycle)
}

// schedulePass emits one measure's worth of notes starting at now and
// returns the measure length in milliseconds (+Inf when frozen).
func (s *Sequencer) schedulePass(now time.Time) float64 {
	stepMs := s.timing.StepDuration()
	n := s.timing.StepCount()
	if math.IsInf(stepMs, 1) {
		return stepMs
	}
	cycleMs := stepMs * float64(n)

	values := s.sampler.Sample()
	steps := s.pattern.Steps()

	offset := 0.0 // grid position in ms from measure start
	consumed := 0 // steps swallowed by an active tie chain
	for i := 0; i < n; i++ {
		if consumed > 0 {
			// Tied-into step: no retrigger, but its grid slot still elapses.
			consumed--
			offset += stepMs
			continue
		}
		if i >= len(steps) || !steps[i].Active {
			// Rest (or pattern shorter than the step count): the slot is
			// consumed, nothing sounds.
			offset += stepMs
			continue
		}
		st := steps[i]

		note, ok := s.noteFor(st, values, i)
		if !ok {
			// Missing sampler data renders this step silent; the rest of
			// the measure still schedules.
			offset += stepMs
			continue
		}
		vel := s.velocityFor(st, values, i)

		durMs := stepMs
		if st.Dotted {
			durMs *= 1.5
		}
		if st.Tie {
			// Chain = this step, every following tied step, plus the first
			// non-tied step (or the end of the sequence). Followers keep
			// their plain step duration; only the origin's base is dotted.
			chain := s.tieChainLength(steps, i, n)
			consumed = chain - 1
			durMs += stepMs * float64(chain-1)
		}

		on := now.Add(msDuration(offset))
		off := on.Add(msDuration(durMs * gateRatio))

		status := midi.NoteOn | s.Channel
		if err := s.sink.Send(status, note, vel, on); err != nil {
			debug.Log("seq", "note-on send failed step=%d: %v", i, err)
		}
		status = midi.NoteOff | s.Channel
		if err := s.sink.Send(status, note, 0, off); err != nil {
			debug.Log("seq", "note-off send failed step=%d: %v", i, err)
		}
		if s.OnNoteOn != nil {
			s.OnNoteOn(note, vel, on, i)
		}
		if s.OnNoteOff != nil {
			s.OnNoteOff(note, off, i)
		}

		// Ties never compress the grid: advance one step duration
		// regardless of how long the note sounds.
		offset += stepMs
	}

	return cycleMs
}

// tieChainLength counts the steps a tie starting at i swallows, including i
// itself and the terminating non-tied step. The chain never wraps past the
// end of the measure.
func (s *Sequencer) tieChainLength(steps []Step, i, n int) int {
	limit := n
	if len(steps) < limit {
		limit = len(steps)
	}
	chain := 1
	j := i + 1
	for j < limit && steps[j].Tie {
		chain++
		j++
	}
	if j < limit {
		chain++ // the first non-tied step ends the chain and is consumed by it
	}
	return chain
}

// noteFor resolves the pitch for step i. Returns ok=false when the step has
// no override and no sampled value to derive from.
func (s *Sequencer) noteFor(st Step, values []float64, i int) (uint8, bool) {
	if st.ScaleDegree != nil && s.quant.Enabled() {
		return clampNote(s.quant.DegreeToNote(*st.ScaleDegree)), true
	}
	if i >= len(values) {
		return 0, false
	}
	raw := noteFloor + int(math.Round(clamp01(values[i])*float64(noteCeil-noteFloor)))
	return clampNote(s.quant.Quantize(raw)), true
}

// velocityFor resolves the velocity for step i: override, else derived from
// the noise gradient at the step's sensor, else the flat default.
func (s *Sequencer) velocityFor(st Step, values []float64, i int) uint8 {
	if st.Velocity != nil {
		return uint8(ClampVelocity(*st.Velocity))
	}
	if len(values) > 1 && i < len(values) {
		g := math.Abs(clamp01(values[(i+1)%len(values)]) - clamp01(values[i]))
		v := float64(defaultVelocity) + g*float64(MaxVelocity-defaultVelocity)
		return uint8(ClampVelocity(int(math.Round(v))))
	}
	return defaultVelocity
}

// CurrentStep derives "where are we now" from elapsed wall-clock time - a
// pull-based query, there is no per-step timer. When stopped it returns the
// last known index unchanged. When the derived index moves, the step-change
// callback fires.
func (s *Sequencer) CurrentStep() int {
	s.mu.Lock()
	if !s.running {
		idx := s.stepIndex
		s.mu.Unlock()
		return idx
	}

	stepMs := s.timing.StepDuration()
	n := s.timing.StepCount()
	if math.IsInf(stepMs, 1) {
		idx := s.stepIndex
		s.mu.Unlock()
		return idx
	}
	cycleMs := stepMs * float64(n)

	elapsedMs := float64(time.Since(s.cycleStart)) / float64(time.Millisecond)
	idx := int(math.Mod(elapsedMs, cycleMs) / stepMs)
	if idx >= n {
		idx = n - 1
	}

	changed := idx != s.stepIndex
	s.stepIndex = idx
	cb := s.OnStepChange
	s.mu.Unlock()

	if changed && cb != nil {
		cb(idx)
	}
	return idx
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampNote(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}
