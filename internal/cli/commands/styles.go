package commands

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the text styles of human-readable command output. Colors are
// dropped automatically when the writer is not a terminal.
type Styles struct {
	Header1 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Code    lipgloss.Style
}

// NewStyles returns the styles for output written to w.
func NewStyles(w io.Writer) *Styles {
	r := lipgloss.NewRenderer(w)
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		Code:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}
