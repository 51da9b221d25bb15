package midi

import (
	"fmt"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// PortSink sends to a hardware/virtual MIDI output port. Future-timestamped
// messages go through an internal delivery queue; immediate ones are sent
// inline.
type PortSink struct {
	port  drivers.Out
	queue *queue
}

// ListPorts returns the names of all available MIDI output ports.
func ListPorts() []string {
	outs := gomidi.GetOutPorts()
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names
}

// OpenPort opens the output port matching name (exact match first, then
// substring). An empty name picks the first available port.
func OpenPort(name string) (*PortSink, error) {
	outs := gomidi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI output ports available")
	}

	var port drivers.Out
	if name == "" {
		port = outs[0]
	} else {
		for _, out := range outs {
			if out.String() == name {
				port = out
				break
			}
		}
		if port == nil {
			for _, out := range outs {
				if strings.Contains(out.String(), name) {
					port = out
					break
				}
			}
		}
	}
	if port == nil {
		return nil, fmt.Errorf("no MIDI output port matching %q", name)
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %q: %w", port.String(), err)
	}

	s := &PortSink{port: port}
	s.queue = newQueue(func(msg [3]uint8) error {
		return send(gomidi.Message(msg[:]))
	})
	return s, nil
}

// Port returns the name of the opened port.
func (s *PortSink) Port() string {
	return s.port.String()
}

// Send queues (or immediately delivers) a raw three-byte message.
func (s *PortSink) Send(status, data1, data2 uint8, at time.Time) error {
	return s.queue.push([3]uint8{status, data1 & 0x7F, data2 & 0x7F}, at)
}

// Close drains nothing: pending future messages are dropped. Callers should
// stop the sequencer first if they care about hanging notes.
func (s *PortSink) Close() error {
	s.queue.close()
	gomidi.CloseDriver()
	return nil
}
