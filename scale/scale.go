package scale

import (
	"sync"
)

// Type selects a scale interval table.
type Type int

const (
	Chromatic Type = iota
	Major
	Minor
	Pentatonic
	Dorian
	Phrygian
	Lydian
	Mixolydian
	Locrian
	HarmonicMinor
	MelodicMinor
	Blues
	WholeTone
	Hirajoshi
	InSen
)

// Intervals from root, in semitones. Entries past the octave let scale
// degrees walk upward without an explicit octave parameter.
var intervals = map[Type][]int{
	Chromatic:     {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	Major:         {0, 2, 4, 5, 7, 9, 11, 12},
	Minor:         {0, 2, 3, 5, 7, 8, 10, 12},
	Pentatonic:    {0, 2, 4, 7, 9, 12, 14, 16},
	Dorian:        {0, 2, 3, 5, 7, 9, 10, 12},
	Phrygian:      {0, 1, 3, 5, 7, 8, 10, 12},
	Lydian:        {0, 2, 4, 6, 7, 9, 11, 12},
	Mixolydian:    {0, 2, 4, 5, 7, 9, 10, 12},
	Locrian:       {0, 1, 3, 5, 6, 8, 10, 12},
	HarmonicMinor: {0, 2, 3, 5, 7, 8, 11, 12},
	MelodicMinor:  {0, 2, 3, 5, 7, 9, 11, 12},
	Blues:         {0, 3, 5, 6, 7, 10, 12, 15},
	WholeTone:     {0, 2, 4, 6, 8, 10, 12},
	Hirajoshi:     {0, 2, 3, 7, 8, 12, 14, 15},
	InSen:         {0, 1, 5, 7, 10, 12, 13, 17},
}

var names = []string{
	"Chromatic", "Major", "Minor", "Pentatonic",
	"Dorian", "Phrygian", "Lydian", "Mixolydian", "Locrian",
	"Harm Min", "Mel Min", "Blues", "Whole Tone",
	"Hirajoshi", "In Sen",
}

// Count returns the number of scale types.
func Count() int { return len(names) }

// Name returns the display name of a scale type.
func (t Type) Name() string {
	if int(t) < 0 || int(t) >= len(names) {
		return "?"
	}
	return names[t]
}

// ByName finds a scale type by its display name. Falls back to Major.
func ByName(name string) Type {
	for i, n := range names {
		if n == name {
			return Type(i)
		}
	}
	return Major
}

// Quantizer snaps raw MIDI notes to the nearest scale tone and resolves
// explicit scale degrees against the current root. When disabled, Quantize
// is the identity.
type Quantizer struct {
	mu      sync.RWMutex
	root    uint8
	typ     Type
	enabled bool
}

// New returns an enabled quantizer rooted at the given MIDI note.
func New(root uint8, typ Type) *Quantizer {
	return &Quantizer{root: root & 0x7F, typ: typ, enabled: true}
}

// SetEnabled toggles quantization.
func (q *Quantizer) SetEnabled(on bool) {
	q.mu.Lock()
	q.enabled = on
	q.mu.Unlock()
}

// Enabled reports whether quantization is active.
func (q *Quantizer) Enabled() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.enabled
}

// SetRoot changes the root note.
func (q *Quantizer) SetRoot(root uint8) {
	q.mu.Lock()
	q.root = root & 0x7F
	q.mu.Unlock()
}

// Root returns the root note.
func (q *Quantizer) Root() uint8 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.root
}

// SetType changes the scale.
func (q *Quantizer) SetType(t Type) {
	q.mu.Lock()
	if _, ok := intervals[t]; ok {
		q.typ = t
	}
	q.mu.Unlock()
}

// ScaleType returns the current scale.
func (q *Quantizer) ScaleType() Type {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.typ
}

// DegreeToNote resolves a scale degree to a MIDI note against the current
// root. Degrees past the table length shift up by octaves; negative degrees
// walk down the same way.
func (q *Quantizer) DegreeToNote(degree int) int {
	q.mu.RLock()
	root := int(q.root)
	table := intervals[q.typ]
	q.mu.RUnlock()

	n := len(table)
	idx := degree % n
	oct := degree / n
	if idx < 0 {
		idx += n
		oct--
	}
	return clampMIDI(root + table[idx] + oct*12)
}

// Quantize snaps raw to the nearest tone of the current scale (ties snap
// down). Identity when disabled.
func (q *Quantizer) Quantize(raw int) int {
	q.mu.RLock()
	enabled := q.enabled
	root := int(q.root)
	table := intervals[q.typ]
	q.mu.RUnlock()

	if !enabled {
		return raw
	}

	var classes [12]bool
	for _, iv := range table {
		classes[((root+iv)%12+12)%12] = true
	}

	for d := 0; d < 12; d++ {
		if down := raw - d; down >= 0 && down <= 127 && classes[((down%12)+12)%12] {
			return down
		}
		if up := raw + d; up >= 0 && up <= 127 && classes[((up%12)+12)%12] {
			return up
		}
	}
	return clampMIDI(raw)
}

func clampMIDI(n int) int {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return n
}
