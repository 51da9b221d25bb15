package main

import (
	"fmt"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"noisesphere/midi"
	"noisesphere/noise"
	"noisesphere/scale"
	"noisesphere/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "note":
		testNote(portArg())
	case "measure":
		testMeasure(portArg())
	default:
		usage()
	}
}

func portArg() string {
	if len(os.Args) > 2 {
		return os.Args[2]
	}
	return ""
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list           - List all MIDI ports")
	fmt.Println("  note [port]    - Send a middle C through the timestamped sink")
	fmt.Println("  measure [port] - Schedule one noise-driven measure at 120 BPM")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		for i, p := range outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI backend is hung.")
		fmt.Println("Fix: restart your MIDI service and try again")
	}
}

func testNote(port string) {
	sink, err := midi.OpenPort(port)
	if err != nil {
		fmt.Printf("open failed: %v\n", err)
		return
	}
	defer sink.Close()

	fmt.Printf("Sending middle C to %s (on now, off in 500ms)\n", sink.Port())
	sink.Send(midi.NoteOn, 60, 100, time.Time{})
	sink.Send(midi.NoteOff, 60, 0, time.Now().Add(500*time.Millisecond))
	time.Sleep(700 * time.Millisecond)
}

func testMeasure(port string) {
	sink, err := midi.OpenPort(port)
	if err != nil {
		fmt.Printf("open failed: %v\n", err)
		return
	}
	defer sink.Close()

	timing := sequencer.NewTiming()
	timing.SetBPM(120)
	timing.SetStepCount(8)
	pattern := sequencer.NewPattern(8)
	field := noise.NewField(time.Now().UnixNano(), 8)
	quant := scale.New(48, scale.Major)

	seq := sequencer.New(timing, pattern, field, quant, sink)
	seq.OnNoteOn = func(note, vel uint8, at time.Time, step int) {
		fmt.Printf("  step %d: note %d vel %d\n", step+1, note, vel)
	}

	fmt.Printf("Playing one measure to %s\n", sink.Port())
	seq.Start()
	time.Sleep(2100 * time.Millisecond)
	seq.Stop()
}
