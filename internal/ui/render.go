// Package ui renders todos for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/raywill/git-todos/internal/domain"
	"github.com/raywill/git-todos/internal/store"
)

var (
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
)

// EmptyMessage is printed when a listing has no todos
const EmptyMessage = "No todos."

// Renderer writes todos to w, styled when w is a terminal
type Renderer struct {
	w      io.Writer
	layout string

	index    lipgloss.Style
	finished lipgloss.Style
	label    lipgloss.Style
}

// NewRenderer creates a Renderer for w using the given timestamp layout
func NewRenderer(w io.Writer, layout string) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:        w,
		layout:   layout,
		index:    r.NewStyle().Foreground(ColorPrimary).Bold(true),
		finished: r.NewStyle().Foreground(ColorSecondary),
		label:    r.NewStyle().Foreground(ColorSuccess),
	}
}

// Line returns the todo fields without the line terminator
func (r *Renderer) Line(t *domain.Todo) string {
	return strings.TrimRight(t.Line(r.layout), "\r\n")
}

// Added reports a newly created todo
func (r *Renderer) Added(t *domain.Todo) {
	fmt.Fprintf(r.w, "%s %s\n", r.label.Render("Added:"), r.Line(t))
}

// Archived reports a todo that was just moved to the archive
func (r *Renderer) Archived(t *domain.Todo) {
	fmt.Fprintf(r.w, "%s %s\n", r.label.Render("Archived:"), r.Line(t))
}

// List prints one line per entry: "#<index>" for unfinished todos and
// "##" for finished ones, then the todo fields.
func (r *Renderer) List(entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(r.w, EmptyMessage)
		return
	}
	for _, e := range entries {
		var marker string
		if e.Todo.Finished() {
			marker = r.finished.Render("##")
		} else {
			marker = r.index.Render(fmt.Sprintf("#%d", e.Index))
		}
		fmt.Fprintf(r.w, "%s\t%s\n", marker, r.Line(e.Todo))
	}
}
