package noise

import (
	"testing"
	"time"
)

func TestSampleLengthMatchesSensorCount(t *testing.T) {
	f := NewField(1, 16)
	if got := len(f.Sample()); got != 16 {
		t.Fatalf("sample length: got %d, want 16", got)
	}

	f.Resize(7)
	if got := len(f.Sample()); got != 7 {
		t.Fatalf("after resize: got %d, want 7", got)
	}
	if f.Len() != 7 {
		t.Fatalf("Len: got %d, want 7", f.Len())
	}
}

func TestSampleValuesInUnitRange(t *testing.T) {
	f := NewField(42, 64)
	for _, v := range f.Sample() {
		if v < 0 || v > 1 {
			t.Fatalf("value %v outside [0,1]", v)
		}
	}
}

func TestSampleDeterministicForFixedSeedAndTime(t *testing.T) {
	frozen := time.Now()
	clock := func() time.Time { return frozen }

	a := NewField(7, 16)
	a.now = clock
	a.start = frozen

	b := NewField(7, 16)
	b.now = clock
	b.start = frozen

	va, vb := a.Sample(), b.Sample()
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("sensor %d: %v != %v for identical seed/time", i, va[i], vb[i])
		}
	}

	c := NewField(8, 16)
	c.now = clock
	c.start = frozen
	vc := c.Sample()
	same := true
	for i := range va {
		if va[i] != vc[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced an identical field")
	}
}

func TestFieldEvolvesOverTime(t *testing.T) {
	base := time.Now()
	f := NewField(1, 16)
	f.start = base

	f.now = func() time.Time { return base }
	before := f.Sample()

	f.now = func() time.Time { return base.Add(10 * time.Second) }
	after := f.Sample()

	same := true
	for i := range before {
		if before[i] != after[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("field did not evolve over 10 seconds")
	}
}

func TestZeroSpeedFreezesField(t *testing.T) {
	base := time.Now()
	f := NewField(1, 8)
	f.start = base
	f.SetSpeed(0)

	f.now = func() time.Time { return base }
	before := f.Sample()

	f.now = func() time.Time { return base.Add(time.Hour) }
	after := f.Sample()

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("sensor %d moved with speed 0", i)
		}
	}
}

func TestResizeClampsToOneSensor(t *testing.T) {
	f := NewField(1, 4)
	f.Resize(0)
	if f.Len() != 1 {
		t.Fatalf("Len after Resize(0): got %d, want 1", f.Len())
	}
}
