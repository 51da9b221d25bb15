package noise

import (
	"math"
	"sync"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// DefaultSpeed is the field evolution rate in noise-space units per second.
const DefaultSpeed = 0.25

// Field is a time-evolving 3D noise field sampled at fixed sensor points
// spread over a unit sphere. Each sequencer step owns one sensor; Sample
// returns the field value at every sensor, in step order, in [0,1].
type Field struct {
	mu      sync.Mutex
	gen     opensimplex.Noise
	sensors [][3]float64
	start   time.Time
	speed   float64
	now     func() time.Time
}

// NewField creates a field with n sensors. The seed fixes the noise layout;
// the same seed always produces the same instrument.
func NewField(seed int64, n int) *Field {
	f := &Field{
		gen:   opensimplex.NewNormalized(seed),
		start: time.Now(),
		speed: DefaultSpeed,
		now:   time.Now,
	}
	f.Resize(n)
	return f
}

// Resize relays the sensors for n steps on a Fibonacci lattice, so any step
// count gets an even spread over the sphere.
func (f *Field) Resize(n int) {
	if n < 1 {
		n = 1
	}
	sensors := make([][3]float64, n)
	golden := math.Pi * (3.0 - math.Sqrt(5.0))
	for i := 0; i < n; i++ {
		y := 1.0 - 2.0*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1.0 - y*y)
		theta := float64(i) * golden
		sensors[i] = [3]float64{math.Cos(theta) * r, y, math.Sin(theta) * r}
	}
	f.mu.Lock()
	f.sensors = sensors
	f.mu.Unlock()
}

// SetSpeed changes how fast the field deforms. Negative values freeze it.
func (f *Field) SetSpeed(speed float64) {
	f.mu.Lock()
	if speed < 0 {
		speed = 0
	}
	f.speed = speed
	f.mu.Unlock()
}

// Sample returns the current field value at every sensor, one float per
// step index, each in [0,1].
func (f *Field) Sample() []float64 {
	f.mu.Lock()
	sensors := f.sensors
	t := f.now().Sub(f.start).Seconds() * f.speed
	f.mu.Unlock()

	out := make([]float64, len(sensors))
	for i, s := range sensors {
		out[i] = f.gen.Eval4(s[0], s[1], s[2], t)
	}
	return out
}

// Len returns the current sensor count.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sensors)
}
