package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/nibzard/termtasks/internal/config"
	"github.com/nibzard/termtasks/internal/todo"
)

const (
	doneBorderHex = "#001100"
	metaHex       = "#004400"
	backgroundHex = "#000000"
)

// Pulse targets for the stock palette. Custom priority colours pulse toward
// a lighter blend of themselves instead.
var stockPulse = map[string]string{
	"#FF0F55": "#FF80A0",
	"#FFB200": "#FFE080",
	"#00E0FF": "#AAFFFF",
}

// Theme is the resolved colour palette.
type Theme struct {
	Accent colorful.Color
	Dim    colorful.Color
	Border colorful.Color
	Card   colorful.Color

	base  map[todo.Priority]colorful.Color
	pulse map[todo.Priority]colorful.Color
}

// NewTheme parses the configured colours.
func NewTheme(tc config.ThemeConfig) (Theme, error) {
	parse := func(field, hex string) (colorful.Color, error) {
		c, err := colorful.Hex(hex)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("theme.%s: %w", field, err)
		}
		return c, nil
	}
	var (
		t   Theme
		err error
	)
	if t.Accent, err = parse("accent", tc.Accent); err != nil {
		return Theme{}, err
	}
	if t.Dim, err = parse("dim", tc.Dim); err != nil {
		return Theme{}, err
	}
	if t.Border, err = parse("border", tc.Border); err != nil {
		return Theme{}, err
	}
	if t.Card, err = parse("card", tc.Card); err != nil {
		return Theme{}, err
	}
	t.base = make(map[todo.Priority]colorful.Color, 3)
	t.pulse = make(map[todo.Priority]colorful.Color, 3)
	for p, hex := range map[todo.Priority]string{
		todo.PriorityHigh: tc.High,
		todo.PriorityMed:  tc.Med,
		todo.PriorityLow:  tc.Low,
	} {
		c, err := parse(string(p), hex)
		if err != nil {
			return Theme{}, err
		}
		t.base[p] = c
		t.pulse[p] = pulseTarget(c)
	}
	return t, nil
}

// DefaultTheme is the stock green-on-black palette.
func DefaultTheme() Theme {
	t, err := NewTheme(config.DefaultTheme())
	if err != nil {
		panic(err)
	}
	return t
}

func pulseTarget(c colorful.Color) colorful.Color {
	if hex, ok := stockPulse[upperHex(c)]; ok {
		target, _ := colorful.Hex(hex)
		return target
	}
	return c.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.5).Clamped()
}

func upperHex(c colorful.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", uint8(c.R*255+0.5), uint8(c.G*255+0.5), uint8(c.B*255+0.5))
}

// PriorityColor is the badge colour for p. NONE uses the dim colour.
func (t Theme) PriorityColor(p todo.Priority) colorful.Color {
	if c, ok := t.base[p]; ok {
		return c
	}
	return t.Dim
}

// High is the colour used for overdue and destructive elements.
func (t Theme) High() colorful.Color {
	return t.base[todo.PriorityHigh]
}

// BorderColor returns the card border colour of a task at the given pulse
// phase. Selected cards hold the accent colour; completed cards are nearly
// black; NONE-priority cards that are not overdue never pulse.
func (t Theme) BorderColor(task todo.Task, overdue, selected bool, phase float64) colorful.Color {
	switch {
	case selected:
		return t.Accent
	case task.Completed:
		c, _ := colorful.Hex(doneBorderHex)
		return c
	case overdue:
		return t.base[todo.PriorityHigh].BlendRgb(t.pulse[todo.PriorityHigh], phase)
	}
	base, ok := t.base[task.Priority]
	if !ok {
		return t.Border
	}
	return base.BlendRgb(t.pulse[task.Priority], phase)
}

func lg(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(upperHex(c.Clamped()))
}

type styles struct {
	title    lipgloss.Style
	accent   lipgloss.Style
	dim      lipgloss.Style
	meta     lipgloss.Style
	high     lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	card     lipgloss.Style
	dialog   lipgloss.Style
	danger   lipgloss.Style
	button   lipgloss.Style
	buttonOn lipgloss.Style
	status   lipgloss.Style
}

func newStyles(t Theme) styles {
	bg := lipgloss.Color(backgroundHex)
	return styles{
		title:    lipgloss.NewStyle().Foreground(lg(t.Accent)).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lg(t.Accent)),
		dim:      lipgloss.NewStyle().Foreground(lg(t.Dim)),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color(metaHex)),
		high:     lipgloss.NewStyle().Foreground(lg(t.High())),
		tab:      lipgloss.NewStyle().Foreground(lg(t.Dim)).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Foreground(bg).Background(lg(t.Accent)).Bold(true).Padding(0, 1),
		card:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Background(lg(t.Card)).Padding(0, 1),
		dialog:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lg(t.Accent)).Padding(1, 2),
		danger:   lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lg(t.High())).Padding(1, 2),
		button:   lipgloss.NewStyle().Foreground(lg(t.Dim)).Border(lipgloss.NormalBorder()).BorderForeground(lg(t.Border)).Padding(0, 1),
		buttonOn: lipgloss.NewStyle().Foreground(bg).Background(lg(t.Accent)).Border(lipgloss.NormalBorder()).BorderForeground(lg(t.Accent)).Padding(0, 1),
		status:   lipgloss.NewStyle().Foreground(lg(t.Dim)).Italic(true),
	}
}
