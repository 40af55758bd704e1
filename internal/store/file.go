package store

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/raywill/git-todos/internal/domain"
	"github.com/spf13/afero"
)

// collection is one backing file and its in-memory todos.
// todos is only meaningful once loaded is true.
type collection struct {
	kind   Kind
	path   string
	banner string

	loaded bool
	todos  []*domain.Todo
}

func newCollection(kind Kind, path, banner string) *collection {
	return &collection{kind: kind, path: path, banner: banner}
}

func (c *collection) remove(index int) *domain.Todo {
	todo := c.todos[index]
	c.todos = append(c.todos[:index], c.todos[index+1:]...)
	return todo
}

func (c *collection) insert(index int, todo *domain.Todo) {
	c.todos = slices.Insert(c.todos, index, todo)
}

// ensureLoaded reads the backing file the first time a collection is used
func (s *Store) ensureLoaded(c *collection) error {
	if c.loaded {
		return nil
	}

	todos, err := s.load(c)
	if err != nil {
		return err
	}
	c.todos = todos
	c.loaded = true
	return nil
}

// load parses a backing file. A missing file is an empty collection and
// lines that are not records are dropped.
func (s *Store) load(c *collection) ([]*domain.Todo, error) {
	data, err := afero.ReadFile(s.fs, c.path)
	if os.IsNotExist(err) {
		s.logger.Debug("no backing file yet", "kind", c.kind, "path", c.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	lines := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\r' || r == '\n'
	})

	todos := make([]*domain.Todo, 0, len(lines))
	dropped := 0
	for _, line := range lines {
		todo, ok := domain.ParseLayout(line, s.layout)
		if !ok {
			if line != c.banner {
				dropped++
				s.logger.Debug("dropping malformed line", "path", c.path, "line", line)
			}
			continue
		}
		todos = append(todos, todo)
	}

	s.logger.Debug("loaded todos", "kind", c.kind, "count", len(todos), "dropped", dropped)
	return todos, nil
}

// save rewrites a backing file from its in-memory todos
func (s *Store) save(c *collection) error {
	var b strings.Builder
	b.WriteString(c.banner)
	b.WriteString(domain.EOL)
	for _, todo := range c.todos {
		b.WriteString(domain.ListMarker)
		b.WriteString(todo.Line(s.layout))
	}

	if err := afero.WriteFile(s.fs, c.path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}

	s.logger.Debug("saved todos", "kind", c.kind, "count", len(c.todos), "path", c.path)
	return nil
}
