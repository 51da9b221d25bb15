package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"noisesphere/config"
	"noisesphere/noise"
	"noisesphere/scale"
	"noisesphere/sequencer"
	"noisesphere/theme"
)

// MaxSteps bounds the step count reachable from the UI. The engine itself
// only requires >= 1.
const MaxSteps = 64

// playheadFPS drives the pull-based playhead poll.
const playheadFPS = 30

type Model struct {
	Seq   *sequencer.Sequencer
	Quant *scale.Quantizer
	Field *noise.Field
	Cfg   *config.Config
	Theme *theme.Theme

	cursor   int
	playhead int
	lastNote string
	portName string
	quitting bool

	notes chan noteMsg
}

type tickMsg time.Time

type noteMsg struct {
	note uint8
	vel  uint8
	step int
}

func NewModel(seq *sequencer.Sequencer, quant *scale.Quantizer, field *noise.Field, cfg *config.Config, th *theme.Theme, portName string) Model {
	m := Model{
		Seq:      seq,
		Quant:    quant,
		Field:    field,
		Cfg:      cfg,
		Theme:    th,
		portName: portName,
		notes:    make(chan noteMsg, 8),
	}

	// Callbacks fire from the scheduling goroutine; hand off without blocking.
	notes := m.notes
	seq.OnNoteOn = func(note, vel uint8, at time.Time, step int) {
		select {
		case notes <- noteMsg{note: note, vel: vel, step: step}:
		default:
		}
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/playheadFPS, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func listenForNotes(notes chan noteMsg) tea.Cmd {
	return func() tea.Msg {
		return <-notes
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), listenForNotes(m.notes))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.playhead = m.Seq.CurrentStep()
		return m, tick()

	case noteMsg:
		m.lastNote = fmt.Sprintf("%s v%d @%d", noteName(msg.note), msg.vel, msg.step+1)
		return m, listenForNotes(m.notes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	timing := m.Seq.Timing()
	pattern := m.Seq.Pattern()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Seq.Stop()
		m.syncConfig()
		return m, tea.Quit

	case " ":
		if m.Seq.Running() {
			m.Seq.Stop()
		} else {
			m.Seq.Start()
		}

	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < pattern.Len()-1 {
			m.cursor++
		}

	case "enter", "a":
		if st, err := pattern.Step(m.cursor); err == nil {
			pattern.SetActive(m.cursor, !st.Active)
		}
	case "d":
		if st, err := pattern.Step(m.cursor); err == nil {
			pattern.SetDotted(m.cursor, !st.Dotted)
		}
	case "t":
		if st, err := pattern.Step(m.cursor); err == nil {
			pattern.SetTie(m.cursor, !st.Tie)
		}

	case "up", "k":
		m.adjustVelocity(5)
	case "down", "j":
		m.adjustVelocity(-5)
	case "s":
		m.adjustDegree(1)
	case "S":
		m.adjustDegree(-1)
	case "x":
		pattern.ClearVelocity(m.cursor)
		pattern.ClearScaleDegree(m.cursor)

	case "+", "=":
		timing.SetBPM(timing.BPM() + 5)
	case "-", "_":
		timing.SetBPM(timing.BPM() - 5)

	case "n":
		num, den := timing.TimeSignature()
		timing.SetTimeSignature(num+1, den)
	case "N":
		num, den := timing.TimeSignature()
		timing.SetTimeSignature(num-1, den)
	case "m":
		num, den := timing.TimeSignature()
		timing.SetTimeSignature(num, den+1)
	case "M":
		num, den := timing.TimeSignature()
		timing.SetTimeSignature(num, den-1)

	case "]":
		m.resizeSteps(timing.StepCount() + 1)
	case "[":
		m.resizeSteps(timing.StepCount() - 1)

	case "g":
		m.Quant.SetEnabled(!m.Quant.Enabled())
	case "r":
		m.Quant.SetRoot(m.Quant.Root() + 1)
	case "R":
		m.Quant.SetRoot(m.Quant.Root() - 1)
	case "c":
		m.Quant.SetType(scale.Type((int(m.Quant.ScaleType()) + 1) % scale.Count()))
	}
	return m, nil
}

// resizeSteps is the orchestration path for a step-count change: timing,
// pattern store, and sensor layout all resize together. The pattern resets
// to defaults - a resize never preserves the old pattern.
func (m *Model) resizeSteps(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxSteps {
		n = MaxSteps
	}
	m.Seq.Timing().SetStepCount(n)
	m.Seq.Pattern().Init(n)
	m.Field.Resize(n)
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) adjustVelocity(delta int) {
	pattern := m.Seq.Pattern()
	st, err := pattern.Step(m.cursor)
	if err != nil {
		return
	}
	v := 80
	if st.Velocity != nil {
		v = *st.Velocity
	}
	pattern.SetVelocity(m.cursor, v+delta)
}

func (m *Model) adjustDegree(delta int) {
	pattern := m.Seq.Pattern()
	st, err := pattern.Step(m.cursor)
	if err != nil {
		return
	}
	d := 0
	if st.ScaleDegree != nil {
		d = *st.ScaleDegree
	}
	pattern.SetScaleDegree(m.cursor, d+delta)
}

// syncConfig writes the live settings back for persistence on quit.
func (m *Model) syncConfig() {
	timing := m.Seq.Timing()
	num, den := timing.TimeSignature()
	m.Cfg.Timing = config.TimingConfig{
		BPM:                timing.BPM(),
		TimeSigNumerator:   num,
		TimeSigDenominator: den,
		Steps:              timing.StepCount(),
	}
	m.Cfg.Scale.Root = m.Quant.Root()
	m.Cfg.Scale.Name = m.Quant.ScaleType().Name()
	m.Cfg.Scale.Quantize = m.Quant.Enabled()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	var b strings.Builder

	b.WriteString(th.Title().Render("noisesphere"))
	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")
	b.WriteString(m.grid())
	b.WriteString("\n")
	b.WriteString(m.stepDetail())
	b.WriteString("\n\n")
	b.WriteString(th.Muted().Render(
		"space play  ←→ cursor  a active  d dot  t tie  ↑↓ vel  s/S degree  x clear\n" +
			"+/- bpm  n/N m/M signature  [/] steps  g quantize  r/R root  c scale  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) statusLine() string {
	th := m.Theme
	timing := m.Seq.Timing()
	num, den := timing.TimeSignature()

	stepMs := timing.StepDuration()
	stepStr := "∞"
	if !math.IsInf(stepMs, 1) {
		stepStr = fmt.Sprintf("%.1fms", stepMs)
	}

	transport := th.Muted().Render("■ stopped")
	if m.Seq.Running() {
		transport = th.Playhead().Render("▶ playing")
	}

	quant := "off"
	if m.Quant.Enabled() {
		quant = fmt.Sprintf("%s %s", noteName(m.Quant.Root()), m.Quant.ScaleType().Name())
	}

	parts := []string{
		transport,
		fmt.Sprintf("%.0f bpm", timing.BPM()),
		fmt.Sprintf("%d/%d", num, den),
		fmt.Sprintf("%d steps", timing.StepCount()),
		th.Accent().Render("step " + stepStr),
		"scale " + quant,
		"out " + m.portName,
	}
	if m.lastNote != "" {
		parts = append(parts, th.Active().Render(m.lastNote))
	}
	return strings.Join(parts, th.Muted().Render("  │  "))
}

func (m Model) grid() string {
	th := m.Theme
	steps := m.Seq.Pattern().Steps()

	var syms, flags []string
	for i, st := range steps {
		sym := th.Symbols.StepRest
		style := th.Muted()
		switch {
		case i == m.playhead && m.Seq.Running():
			if i == m.cursor {
				sym = th.Symbols.CursorPlayhead
			} else {
				sym = th.Symbols.StepPlayhead
			}
			style = th.Playhead()
		case st.Active:
			if i == m.cursor {
				sym = th.Symbols.CursorActive
			} else {
				sym = th.Symbols.StepActive
			}
			style = th.Active()
		default:
			if i == m.cursor {
				sym = th.Symbols.CursorRest
			}
		}
		if i == m.cursor {
			style = th.Cursor()
		}
		syms = append(syms, style.Render(string(sym)))

		flag := " "
		switch {
		case st.Dotted && st.Tie:
			flag = string(th.Symbols.Dotted) + string(th.Symbols.Tie)
		case st.Dotted:
			flag = string(th.Symbols.Dotted)
		case st.Tie:
			flag = string(th.Symbols.Tie)
		}
		flags = append(flags, th.Accent().Render(flag))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(syms, " "),
		strings.Join(flags, " "),
	)
}

func (m Model) stepDetail() string {
	th := m.Theme
	st, err := m.Seq.Pattern().Step(m.cursor)
	if err != nil {
		return ""
	}

	vel := "derived"
	if st.Velocity != nil {
		vel = fmt.Sprintf("%d", *st.Velocity)
	}
	deg := "noise"
	if st.ScaleDegree != nil {
		deg = fmt.Sprintf("degree %d", *st.ScaleDegree)
	}
	return th.Muted().Render(fmt.Sprintf("step %d: active=%v dotted=%v tie=%v vel=%s pitch=%s",
		m.cursor+1, st.Active, st.Dotted, st.Tie, vel, deg))
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n uint8) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], int(n)/12-1)
}
