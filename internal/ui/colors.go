package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#3B82F6", "#FF0000", "#FFA500", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	info   lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
	banner lipgloss.Style
	notice lipgloss.Style
}

// NewPalette builds the dashboard stylesheet from title, success, info, error, warning and help colors.
func NewPalette(t, s, i, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		info:   NewBold(i),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		header: NewBold(t).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		border: NewStyle(h),
		banner: NewStyle(e).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(e)).Padding(0, 1),
		notice: lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color(t)).Padding(0, 2),
	}
}

// On renders text over the given background color.
func (p *Palette) On(text string, bg lipgloss.Color) string {
	return lipgloss.NewStyle().Background(bg).Render(text)
}

// As renders text in the given foreground color.
func (p *Palette) As(text string, fg lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(fg).Render(text)
}

var _ Painter = (*Palette)(nil)

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
