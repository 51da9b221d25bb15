package sequencer

import (
	"fmt"
	"sync"
)

// Velocity bounds for override values. 0 maps up to MinVelocity rather than
// meaning "off" - a rest is expressed with Active=false, not velocity 0.
const (
	MinVelocity = 1
	MaxVelocity = 127
)

// Step holds the musical settings for one sequencer slot.
type Step struct {
	Active      bool // false = rest; the slot still consumes grid time
	Dotted      bool // multiplies this step's nominal duration by 1.5
	Tie         bool // merge duration with following tied steps instead of retriggering
	ScaleDegree *int // nil = derive pitch from sampled noise
	Velocity    *int // nil = derive velocity; set = override, clamped [1,127]
}

func defaultStep() Step {
	return Step{Active: true}
}

// Pattern owns the per-step parameter sequence. It has no timing knowledge.
// All accessors use a uniform out-of-range policy: explicit error.
type Pattern struct {
	mu    sync.RWMutex
	steps []Step
}

// NewPattern returns a pattern of n default steps (active, undotted, untied,
// no overrides).
func NewPattern(n int) *Pattern {
	p := &Pattern{}
	p.Init(n)
	return p
}

// Init replaces the store with n fresh default steps. A resize never tries
// to preserve the previous pattern. n is clamped to at least 1.
func (p *Pattern) Init(n int) {
	if n < 1 {
		n = 1
	}
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = defaultStep()
	}
	p.mu.Lock()
	p.steps = steps
	p.mu.Unlock()
}

// Len returns the number of steps.
func (p *Pattern) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.steps)
}

// Step returns the step at index i.
func (p *Pattern) Step(i int) (Step, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.steps) {
		return Step{}, p.rangeErr(i)
	}
	return p.steps[i], nil
}

// Steps returns a snapshot copy of the whole sequence, in order.
func (p *Pattern) Steps() []Step {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// SetActive sets the rest flag for step i (Active=false means rest).
func (p *Pattern) SetActive(i int, v bool) error {
	return p.mutate(i, func(s *Step) { s.Active = v })
}

// SetDotted sets the 1.5x duration flag for step i.
func (p *Pattern) SetDotted(i int, v bool) error {
	return p.mutate(i, func(s *Step) { s.Dotted = v })
}

// SetTie sets the tie flag for step i.
func (p *Pattern) SetTie(i int, v bool) error {
	return p.mutate(i, func(s *Step) { s.Tie = v })
}

// SetScaleDegree forces step i to a specific scale degree.
func (p *Pattern) SetScaleDegree(i, degree int) error {
	return p.mutate(i, func(s *Step) {
		d := degree
		s.ScaleDegree = &d
	})
}

// ClearScaleDegree restores noise-derived pitch for step i.
func (p *Pattern) ClearScaleDegree(i int) error {
	return p.mutate(i, func(s *Step) { s.ScaleDegree = nil })
}

// SetVelocity overrides the velocity for step i, clamped into [1,127].
func (p *Pattern) SetVelocity(i, vel int) error {
	return p.mutate(i, func(s *Step) {
		v := ClampVelocity(vel)
		s.Velocity = &v
	})
}

// ClearVelocity restores derived velocity for step i.
func (p *Pattern) ClearVelocity(i int) error {
	return p.mutate(i, func(s *Step) { s.Velocity = nil })
}

func (p *Pattern) mutate(i int, fn func(*Step)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.steps) {
		return p.rangeErr(i)
	}
	fn(&p.steps[i])
	return nil
}

func (p *Pattern) rangeErr(i int) error {
	return fmt.Errorf("step index %d out of range [0,%d)", i, len(p.steps))
}

// ClampVelocity forces v into the valid override range [1,127].
func ClampVelocity(v int) int {
	if v < MinVelocity {
		return MinVelocity
	}
	if v > MaxVelocity {
		return MaxVelocity
	}
	return v
}
