package scale

import "testing"

func TestDegreeToNote(t *testing.T) {
	q := New(48, Major) // C3 major

	cases := []struct {
		degree int
		want   int
	}{
		{0, 48},  // root
		{1, 50},  // D
		{2, 52},  // E
		{4, 55},  // G
		{6, 59},  // B
		{7, 60},  // octave
		{8, 60},  // wraps table: degree 8 = root + 12
		{9, 62},
	}
	for _, c := range cases {
		if got := q.DegreeToNote(c.degree); got != c.want {
			t.Errorf("degree %d: got %d, want %d", c.degree, got, c.want)
		}
	}
}

func TestDegreeToNoteClampsToMIDIRange(t *testing.T) {
	q := New(120, Major)
	if got := q.DegreeToNote(20); got != 127 {
		t.Errorf("high degree: got %d, want 127", got)
	}
	q.SetRoot(0)
	if got := q.DegreeToNote(-20); got != 0 {
		t.Errorf("low degree: got %d, want 0", got)
	}
}

func TestQuantizeSnapsToNearestTone(t *testing.T) {
	q := New(48, Major) // pitch classes C D E F G A B

	cases := []struct {
		raw  int
		want int
	}{
		{48, 48}, // C already in scale
		{49, 48}, // C# ties snap down to C
		{51, 50}, // D# -> D
		{54, 53}, // F# ties down to F
		{61, 60}, // across the octave
	}
	for _, c := range cases {
		if got := q.Quantize(c.raw); got != c.want {
			t.Errorf("quantize %d: got %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestQuantizeDisabledIsIdentity(t *testing.T) {
	q := New(48, Major)
	q.SetEnabled(false)
	for raw := 0; raw <= 127; raw += 13 {
		if got := q.Quantize(raw); got != raw {
			t.Errorf("disabled quantize %d: got %d", raw, got)
		}
	}
}

func TestQuantizeChromaticIsIdentity(t *testing.T) {
	q := New(60, Chromatic)
	for raw := 12; raw <= 84; raw += 7 {
		if got := q.Quantize(raw); got != raw {
			t.Errorf("chromatic quantize %d: got %d", raw, got)
		}
	}
}

func TestRootChangesQuantization(t *testing.T) {
	q := New(48, Major)
	q.SetRoot(50) // D major: C is not in scale, C# is
	if got := q.Quantize(48); got != 47 {
		t.Errorf("C against D major: got %d, want 47 (B)", got)
	}
}

func TestByNameRoundTrip(t *testing.T) {
	for i := 0; i < Count(); i++ {
		typ := Type(i)
		if got := ByName(typ.Name()); got != typ {
			t.Errorf("ByName(%q): got %v, want %v", typ.Name(), got, typ)
		}
	}
	if got := ByName("no such scale"); got != Major {
		t.Errorf("unknown name: got %v, want Major fallback", got)
	}
}
