package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Step grid states (no cursor)
	StepRest     rune // · rest
	StepActive   rune // ● sounding step
	StepPlayhead rune // ▶ current playing

	// Step grid states (with cursor)
	CursorRest     rune // ○ cursor on rest
	CursorActive   rune // ◉ cursor on sounding step
	CursorPlayhead rune // ▷ cursor on playhead

	// Flag row markers
	Dotted rune // attached below a dotted step
	Tie    rune // attached below a tied step
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepRest:     '·',
			StepActive:   '●',
			StepPlayhead: '▶',

			CursorRest:     '○',
			CursorActive:   '◉',
			CursorPlayhead: '▷',

			Dotted: '.',
			Tie:    '‿',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0
	RoleSurface  = 0.1
	RoleMuted    = 0.25
	RoleFG       = 0.45
	RoleAccent   = 0.55
	RoleCursor   = 0.65
	RoleActive   = 0.75
	RoleWarning  = 0.85
	RolePlayhead = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleMuted)))
}

func (t *Theme) Accent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleAccent)))
}

func (t *Theme) Cursor() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleCursor))).Bold(true)
}

func (t *Theme) Active() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleActive)))
}

func (t *Theme) Warning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleWarning)))
}

func (t *Theme) Playhead() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RolePlayhead))).Bold(true)
}

func (t *Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(rgbToLipgloss(t.Palette.Lookup(RoleAccent))).Bold(true)
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
