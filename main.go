package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"noisesphere/config"
	"noisesphere/debug"
	"noisesphere/midi"
	"noisesphere/noise"
	"noisesphere/scale"
	"noisesphere/sequencer"
	"noisesphere/theme"
	"noisesphere/tui"
)

func main() {
	listPorts := flag.Bool("list-ports", false, "list MIDI output ports and exit")
	portName := flag.String("port", "", "MIDI output port (exact or substring match; overrides config)")
	debugLog := flag.Bool("debug", false, "log to ~/.config/noisesphere/debug.log")
	flag.Parse()

	if *listPorts {
		for _, name := range midi.ListPorts() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *debugLog || cfg.Debug {
		if err := debug.Enable(); err != nil {
			fmt.Printf("debug log unavailable: %v\n", err)
		}
		defer debug.Disable()
	}

	// Timing and pattern share one step count; the TUI keeps them in sync on
	// resize.
	timing := sequencer.NewTiming()
	timing.SetBPM(cfg.Timing.BPM)
	timing.SetTimeSignature(cfg.Timing.TimeSigNumerator, cfg.Timing.TimeSigDenominator)
	timing.SetStepCount(cfg.Timing.Steps)
	pattern := sequencer.NewPattern(timing.StepCount())

	quant := scale.New(cfg.Scale.Root, scale.ByName(cfg.Scale.Name))
	quant.SetEnabled(cfg.Scale.Quantize)

	field := noise.NewField(cfg.Noise.Seed, timing.StepCount())
	if cfg.Noise.Speed > 0 {
		field.SetSpeed(cfg.Noise.Speed)
	}

	// Prefer a real port; fall back to a null sink so the instrument still
	// runs (and renders) without MIDI hardware.
	want := cfg.MIDI.PortName
	if *portName != "" {
		want = *portName
	}
	var sink midi.Sink
	sinkName := "none"
	if port, err := midi.OpenPort(want); err != nil {
		fmt.Printf("No MIDI output (%v) - running silent\n", err)
		sink = midi.NullSink{}
	} else {
		sink = port
		sinkName = port.Port()
		defer port.Close()
	}

	seq := sequencer.New(timing, pattern, field, quant, sink)
	seq.Channel = cfg.MIDI.Channel & 0x0F
	defer seq.Stop()

	th := theme.New(theme.DefaultPalette())
	m := tui.NewModel(seq, quant, field, cfg, th, sinkName)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Save(); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
	}
}
