package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/raywill/git-todos/internal/domain"
	"github.com/raywill/git-todos/internal/gitroot"
	"github.com/raywill/git-todos/internal/logging"
	"github.com/spf13/afero"
)

// Default backing file names, relative to the repository root
const (
	DefaultUnfinishedFile = "TODO.md"
	DefaultArchivedFile   = "ARCHIVE.md"
)

var (
	// ErrNotInRepository is returned when no repository root can be found
	ErrNotInRepository = errors.New("not in a repository")
	// ErrTodoNotFound is returned when an index does not address an unfinished todo
	ErrTodoNotFound = errors.New("todo not found")
	// ErrEmptyDescription is returned when adding a blank todo
	ErrEmptyDescription = errors.New("empty description")
)

// Kind selects one of the two collections
type Kind int

const (
	Unfinished Kind = iota
	Archived
)

func (k Kind) String() string {
	switch k {
	case Unfinished:
		return "unfinished"
	case Archived:
		return "archived"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry pairs a todo with its position in its collection
type Entry struct {
	Index int
	Todo  *domain.Todo
}

// Filter bounds todos by creation time. Both bounds are inclusive
// and compared at whole-second granularity; nil means unbounded.
type Filter struct {
	After  *time.Time
	Before *time.Time
}

func (f Filter) match(t *domain.Todo) bool {
	created := t.CreatedAt.Unix()
	if f.Before != nil && created > f.Before.Unix() {
		return false
	}
	if f.After != nil && created < f.After.Unix() {
		return false
	}
	return true
}

// Store keeps the unfinished and archived todos of one repository
type Store struct {
	fs     afero.Fs
	root   string
	marker string
	layout string
	now    func() time.Time
	logger *log.Logger

	unfinishedName string
	archivedName   string

	unfinished *collection
	archived   *collection
}

// Option configures a Store
type Option func(*Store)

// WithLayout sets the timestamp layout used in the backing files
func WithLayout(layout string) Option {
	return func(s *Store) { s.layout = layout }
}

// WithLogger sets the logger for load/save diagnostics
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock sets the time source for creation and completion stamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMarker sets the entry that identifies the repository root
func WithMarker(marker string) Option {
	return func(s *Store) { s.marker = marker }
}

// WithFiles overrides the backing file names
func WithFiles(unfinished, archived string) Option {
	return func(s *Store) {
		if unfinished != "" {
			s.unfinishedName = unfinished
		}
		if archived != "" {
			s.archivedName = archived
		}
	}
}

// Open locates the repository containing start and returns its Store.
// An empty start means the current working directory.
func Open(fs afero.Fs, start string, opts ...Option) (*Store, error) {
	s := newStore(fs, opts)

	root, err := gitroot.Find(fs, start, s.marker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotInRepository, err)
	}
	s.setRoot(root)

	s.logger.Debug("opened store", "root", root)
	return s, nil
}

// New creates a Store rooted at a known directory
func New(fs afero.Fs, root string, opts ...Option) *Store {
	s := newStore(fs, opts)
	s.setRoot(root)
	return s
}

func newStore(fs afero.Fs, opts []Option) *Store {
	s := &Store{
		fs:             fs,
		marker:         gitroot.Marker,
		layout:         domain.DefaultLayout,
		now:            time.Now,
		unfinishedName: DefaultUnfinishedFile,
		archivedName:   DefaultArchivedFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	return s
}

func (s *Store) setRoot(root string) {
	s.root = root
	s.unfinished = newCollection(Unfinished, filepath.Join(root, s.unfinishedName), "## Unfinished")
	s.archived = newCollection(Archived, filepath.Join(root, s.archivedName), "## Archived")
}

// Root returns the repository root directory
func (s *Store) Root() string {
	return s.root
}

// Path returns the backing file of a collection
func (s *Store) Path(kind Kind) string {
	return s.collection(kind).path
}

// AddTodo appends a new unfinished todo and saves TODO.md.
// The description is trimmed; an empty one is rejected since it would not
// survive a reload.
func (s *Store) AddTodo(description string) (*domain.Todo, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	if err := s.ensureLoaded(s.unfinished); err != nil {
		return nil, err
	}

	todo := domain.New(description, s.now())
	s.unfinished.todos = append(s.unfinished.todos, todo)

	if err := s.save(s.unfinished); err != nil {
		return nil, err
	}
	return todo, nil
}

// ArchiveTodo completes the unfinished todo at index and moves it to the
// end of the archive. Todos after index shift down by one.
func (s *Store) ArchiveTodo(index int) (*domain.Todo, error) {
	if err := s.ensureLoaded(s.unfinished); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(s.unfinished.todos) {
		return nil, fmt.Errorf("%w: #%d", ErrTodoNotFound, index)
	}
	if err := s.ensureLoaded(s.archived); err != nil {
		return nil, err
	}

	todo := s.unfinished.remove(index)
	todo.Complete(s.now())
	s.archived.todos = append(s.archived.todos, todo)

	// ARCHIVE.md first: a failed write must leave the todo in TODO.md.
	if err := s.save(s.archived); err != nil {
		s.archived.remove(len(s.archived.todos) - 1)
		s.unfinished.insert(index, todo)
		todo.CompletedAt = nil
		return nil, err
	}
	if err := s.save(s.unfinished); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns the todos of one collection that match filter, in file order.
// Entry.Index is the position in the whole collection, not in the result.
func (s *Store) List(kind Kind, filter Filter) ([]Entry, error) {
	c := s.collection(kind)
	if err := s.ensureLoaded(c); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(c.todos))
	for i, todo := range c.todos {
		if filter.match(todo) {
			entries = append(entries, Entry{Index: i, Todo: todo})
		}
	}
	return entries, nil
}

// ListAll returns matching unfinished todos followed by matching archived ones
func (s *Store) ListAll(filter Filter) ([]Entry, error) {
	unfinished, err := s.List(Unfinished, filter)
	if err != nil {
		return nil, err
	}
	archived, err := s.List(Archived, filter)
	if err != nil {
		return nil, err
	}
	return append(unfinished, archived...), nil
}

func (s *Store) collection(kind Kind) *collection {
	if kind == Archived {
		return s.archived
	}
	return s.unfinished
}
