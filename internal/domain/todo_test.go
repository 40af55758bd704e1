package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation(DefaultLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNew_StripsLineBreaks(t *testing.T) {
	todo := New("fix\r\nthe\nbuild\r", at("2024-05-01 09:30"))

	assert.Equal(t, "fix  the build ", todo.Description)
	assert.False(t, todo.Finished())
}

func TestNew_DefaultsCreatedAtToNow(t *testing.T) {
	before := time.Now()
	todo := New("write docs", time.Time{})

	assert.False(t, todo.CreatedAt.Before(before))
	assert.False(t, todo.CreatedAt.After(time.Now()))
}

func TestComplete(t *testing.T) {
	todo := New("ship it", at("2024-05-01 09:30"))
	todo.Complete(at("2024-05-02 10:00"))

	require.True(t, todo.Finished())
	assert.Equal(t, at("2024-05-02 10:00"), *todo.CompletedAt)

	todo.Complete(at("2024-05-03 11:00"))
	assert.Equal(t, at("2024-05-03 11:00"), *todo.CompletedAt)
}

func TestLine(t *testing.T) {
	todo := New("review PR", at("2024-05-01 09:30"))
	assert.Equal(t, "2024-05-01 09:30\t\treview PR"+EOL, todo.Line(DefaultLayout))

	todo.Complete(at("2024-05-02 18:05"))
	assert.Equal(t, "2024-05-01 09:30\t2024-05-02 18:05\treview PR"+EOL, todo.Line(""))
	assert.Equal(t, "2024-05-01 09:30\t2024-05-02 18:05\treview PR", todo.String())
}

func TestParse_RoundTrip(t *testing.T) {
	created := time.Date(2024, time.May, 1, 9, 30, 42, 0, time.Local)
	completed := time.Date(2024, time.June, 2, 23, 59, 7, 0, time.Local)

	cases := []struct {
		name      string
		todo      *Todo
		completed bool
	}{
		{name: "unfinished", todo: New("plain text", created)},
		{name: "finished", todo: New("done thing", created), completed: true},
		{name: "tab in description", todo: New("a\tb\tc", created)},
		{name: "unicode", todo: New("重构 store 层", created)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.completed {
				tc.todo.Complete(completed)
			}

			parsed, ok := Parse(ListMarker + tc.todo.Line(DefaultLayout))
			require.True(t, ok)

			assert.Equal(t, tc.todo.Description, parsed.Description)
			assert.True(t, parsed.CreatedAt.Equal(tc.todo.CreatedAt.Truncate(time.Minute)))
			assert.Equal(t, tc.todo.Finished(), parsed.Finished())
			if tc.completed {
				assert.True(t, parsed.CompletedAt.Equal(completed.Truncate(time.Minute)))
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	lines := []string{
		"",
		"*",
		"## Unfinished",
		"## Archived",
		"* 2024-05-01 09:30\tonly two fields",
		"* not a date\t\tdescription",
		"* 2024-05-01 09:30\tnot a date\tdescription",
		"* \t\tdescription",
	}

	for _, line := range lines {
		_, ok := Parse(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParse_IgnoresMarkerContent(t *testing.T) {
	// Any two leading characters are dropped, not just "* ".
	todo, ok := Parse("- 2024-05-01 09:30\t\tanything")
	require.True(t, ok)
	assert.Equal(t, "anything", todo.Description)
}

func TestParseLayout_CustomLayout(t *testing.T) {
	layout := "02.01.2006 15:04"
	todo := New("custom", at("2024-05-01 09:30"))

	line := ListMarker + todo.Line(layout)
	assert.True(t, strings.HasPrefix(line, "* 01.05.2024 09:30\t"))

	parsed, ok := ParseLayout(line, layout)
	require.True(t, ok)
	assert.True(t, parsed.CreatedAt.Equal(todo.CreatedAt))
}

func TestParse_MultiByteMarker(t *testing.T) {
	todo, ok := Parse("• 2024-05-01 09:30\t\tbullet")
	require.True(t, ok)
	assert.Equal(t, "bullet", todo.Description)
	assert.True(t, todo.CreatedAt.Equal(at("2024-05-01 09:30")))

	todo, ok = Parse("→→2024-05-01 09:30\t\tarrows")
	require.True(t, ok)
	assert.Equal(t, "arrows", todo.Description)

	_, ok = Parse("•")
	assert.False(t, ok)
}
