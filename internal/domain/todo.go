package domain

import (
	"runtime"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultLayout is the timestamp layout used in TODO.md and ARCHIVE.md
const DefaultLayout = "2006-01-02 15:04"

// ListMarker prefixes every record line in a backing file
const ListMarker = "* "

const fieldSep = "\t"

// EOL is the line terminator written after each record
var EOL = lineEnding()

func lineEnding() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Todo represents a single to-do item
type Todo struct {
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// New creates an unfinished todo. A zero createdAt means now.
func New(description string, createdAt time.Time) *Todo {
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &Todo{
		Description: stripLineBreaks(description),
		CreatedAt:   createdAt,
	}
}

// Finished reports whether the todo has been completed
func (t *Todo) Finished() bool {
	return t.CompletedAt != nil
}

// Complete marks the todo as completed at the given time.
// Completing twice overwrites the previous completion time.
func (t *Todo) Complete(at time.Time) {
	t.CompletedAt = &at
}

// Line serializes the todo as "<created>\t<completed>\t<description>" plus EOL.
// The completed field is empty for unfinished todos.
func (t *Todo) Line(layout string) string {
	if layout == "" {
		layout = DefaultLayout
	}
	completed := ""
	if t.CompletedAt != nil {
		completed = t.CompletedAt.Format(layout)
	}
	return t.CreatedAt.Format(layout) + fieldSep + completed + fieldSep + t.Description + EOL
}

// String returns the line form without the terminator
func (t *Todo) String() string {
	return strings.TrimRight(t.Line(DefaultLayout), "\r\n")
}

// Parse reads a record line as written to a backing file, list marker included.
// It returns false for anything that is not a record.
func Parse(line string) (*Todo, bool) {
	return ParseLayout(line, DefaultLayout)
}

// ParseLayout is Parse for files written with a non-default layout
func ParseLayout(line, layout string) (*Todo, bool) {
	rest, ok := dropMarker(line)
	if !ok {
		return nil, false
	}
	parts := strings.Split(strings.TrimSpace(rest), fieldSep)
	if len(parts) < 3 {
		return nil, false
	}

	createdAt, err := ParseTime(parts[0], layout)
	if err != nil {
		return nil, false
	}

	todo := &Todo{
		Description: strings.Join(parts[2:], fieldSep),
		CreatedAt:   createdAt,
	}

	if completed := strings.TrimSpace(parts[1]); completed != "" {
		completedAt, err := ParseTime(completed, layout)
		if err != nil {
			return nil, false
		}
		todo.CompletedAt = &completedAt
	}

	return todo, true
}

// dropMarker removes the first two characters, whatever they are
func dropMarker(line string) (string, bool) {
	n := utf8.RuneCountInString(ListMarker)
	for i := range line {
		if n == 0 {
			return line[i:], true
		}
		n--
	}
	return "", n == 0
}

func stripLineBreaks(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
