// Package report renders per-entry status lines in the "[ OK ] ..." style
// used by every command. Tags are coloured only when the writer is a terminal
// that supports it.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Tag is the bracketed status prefix of a line.
type Tag string

const (
	TagOK   Tag = "[ OK ]"
	TagMiss Tag = "[MISS]"
	TagFail Tag = "[FAIL]"
	TagSkip Tag = "[SKIP]"
	TagWarn Tag = "[WARN]"
	TagPlan Tag = "[PLAN]"
	TagInfo Tag = "[INFO]"
)

// Options configures a Renderer.
type Options struct {
	NoColor bool
}

// Renderer writes status lines to an output.
type Renderer struct {
	out    io.Writer
	styles map[Tag]lipgloss.Style
	bold   lipgloss.Style
}

// New returns a Renderer writing to out.
func New(out io.Writer, opts Options) *Renderer {
	lr := lipgloss.NewRenderer(out)
	if opts.NoColor {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		out: out,
		styles: map[Tag]lipgloss.Style{
			TagOK:   lr.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
			TagMiss: lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			TagFail: lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			TagSkip: lr.NewStyle().Foreground(lipgloss.Color("244")),
			TagWarn: lr.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
			TagPlan: lr.NewStyle().Foreground(lipgloss.Color("69")),
			TagInfo: lr.NewStyle().Foreground(lipgloss.Color("69")),
		},
		bold: lr.NewStyle().Bold(true),
	}
}

// Line writes one indented status line.
func (r *Renderer) Line(tag Tag, format string, args ...any) {
	style, ok := r.styles[tag]
	label := string(tag)
	if ok {
		label = style.Render(label)
	}
	fmt.Fprintf(r.out, "  %s %s\n", label, fmt.Sprintf(format, args...))
}

// Heading writes an unindented section heading.
func (r *Renderer) Heading(format string, args ...any) {
	fmt.Fprintln(r.out, r.bold.Render(fmt.Sprintf(format, args...)))
}

// Summary writes the closing counts line.
func (r *Renderer) Summary(format string, args ...any) {
	fmt.Fprintln(r.out, r.bold.Render(fmt.Sprintf(format, args...)))
}
