package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/courtside/internal/theme"
)

// Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// Palette is a simple stylesheet built from a [theme.Colors] scheme
type Palette struct {
	colors    theme.Colors
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	ok        lipgloss.Style
	err       lipgloss.Style
	warn      lipgloss.Style
	muted     lipgloss.Style
	help      lipgloss.Style
	card      lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(c theme.Colors) *Palette {
	return &Palette{
		colors:    c,
		title:     NewBold(c.Primary).MarginBottom(1),
		tab:       NewStyle(c.TextMuted).Padding(0, 2),
		activeTab: NewBold(c.Primary).Padding(0, 2).Underline(true),
		ok:        NewBold(c.Success),
		err:       NewBold(c.Error),
		warn:      NewEm(c.Error),
		muted:     NewStyle(c.TextMuted),
		help:      NewEm(c.TextMuted),
		card:      NewStyle(c.Text).Border(lipgloss.RoundedBorder()).BorderForeground(c.Border).Padding(1, 2),
	}
}

func (p *Palette) On(s string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(s)
}

func (p *Palette) As(s string, fg lipgloss.Color) string {
	return NewStyle(fg).Render(s)
}

// delegate returns a list delegate whose selection follows the palette.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.colors.Primary).BorderLeftForeground(p.colors.Primary)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.colors.Primary).BorderLeftForeground(p.colors.Primary)
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(p.colors.Text)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(p.colors.TextMuted)
	return d
}

func NewStyle(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(fg)
}

func NewBold(fg lipgloss.Color) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg lipgloss.Color) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
