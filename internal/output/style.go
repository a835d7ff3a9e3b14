package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	IconDue       = "!"
	IconRecurring = "↻"
	IconLabel     = "@"
	IconProject   = "#"
	IconComment   = "★"
)

type Styles struct {
	enabled bool
	links   bool

	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
	Icon     lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
}

type StyleOptions struct {
	Color bool
	Links bool
}

func NewStyles(w io.Writer, opts StyleOptions) Styles {
	r := lipgloss.NewRenderer(w)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
	}
	return Styles{
		enabled:  opts.Color,
		links:    opts.Links,
		High:     r.NewStyle().Foreground(lipgloss.Color("9")),
		Medium:   r.NewStyle().Foreground(lipgloss.Color("11")),
		Low:      r.NewStyle().Foreground(lipgloss.Color("12")),
		Icon:     r.NewStyle().Foreground(lipgloss.Color("13")),
		Header:   r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("8")),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Selected: r.NewStyle().Reverse(true),
	}
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

func (s Styles) Priority(priority int, text string) string {
	switch priority {
	case 4:
		return s.render(s.High, text)
	case 3:
		return s.render(s.Medium, text)
	case 2:
		return s.render(s.Low, text)
	}
	return text
}

func (s Styles) Glyph(icon string) string {
	return s.render(s.Icon, icon)
}

func (s Styles) Title(text string) string {
	return s.render(s.Header, text)
}

func (s Styles) Dim(text string) string {
	return s.render(s.Muted, text)
}

func (s Styles) Warn(text string) string {
	return s.render(s.Warning, text)
}

func (s Styles) Link(url, text string) string {
	if text == "" {
		text = url
	}
	if !s.links || url == "" {
		return text
	}
	return Hyperlink(url, text)
}

func Hyperlink(url, text string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}
