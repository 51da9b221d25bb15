package midi

import "time"

// Status bytes for channel 1 messages. OR with a channel number 0-15 to
// address other channels.
const (
	NoteOff       uint8 = 0x80
	NoteOn        uint8 = 0x90
	ControlChange uint8 = 0xB0
	PitchBend     uint8 = 0xE0
)

// Sink accepts raw MIDI byte triples, optionally with a future delivery
// time. A zero (or past) `at` means deliver immediately; otherwise the sink
// owns delivering the message at that wall-clock time - callers do not
// re-check or re-fire.
type Sink interface {
	Send(status, data1, data2 uint8, at time.Time) error
	Close() error
}

// NullSink discards everything. Used when no MIDI port is available so the
// rest of the instrument still runs.
type NullSink struct{}

func (NullSink) Send(status, data1, data2 uint8, at time.Time) error { return nil }
func (NullSink) Close() error                                        { return nil }
