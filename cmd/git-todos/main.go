package main

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/raywill/git-todos/internal/config"
	"github.com/raywill/git-todos/internal/domain"
	"github.com/raywill/git-todos/internal/logging"
	"github.com/raywill/git-todos/internal/store"
	"github.com/raywill/git-todos/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	errNothingToAdd = errors.New("nothing to add")
	errInvalidIndex = errors.New("index must be a non-negative number")
)

var digits = regexp.MustCompile(`^\d+$`)

// app carries what every command needs; tests swap fs and dir
type app struct {
	fs      afero.Fs
	dir     string
	v       *viper.Viper
	cfgFile string

	cfg    config.Config
	logger *log.Logger
}

func main() {
	a := &app{fs: afero.NewOsFs(), v: viper.New()}
	if err := a.rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	var (
		all      bool
		finished bool
		after    string
		before   string
	)

	rootCmd := &cobra.Command{
		Use:   "git-todos",
		Short: "Per-repository to-do list kept in TODO.md and ARCHIVE.md",
		Long: `git-todos keeps a to-do list at the root of the current git working tree.
Unfinished items live in TODO.md, archived ones in ARCHIVE.md.

Without a subcommand it lists unfinished todos.`,
		Version:           version,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(after, before, a.cfg.TimeFormat)
			if err != nil {
				return err
			}

			s, err := a.getStore()
			if err != nil {
				return err
			}

			var entries []store.Entry
			switch {
			case all:
				entries, err = s.ListAll(filter)
			case finished:
				entries, err = s.List(store.Archived, filter)
			default:
				entries, err = s.List(store.Unfinished, filter)
			}
			if err != nil {
				return err
			}

			a.renderer(cmd).List(entries)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./.git-todos.yaml or $HOME/.git-todos.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	_ = a.v.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.Flags().BoolVarP(&all, "all", "a", false, "list unfinished and archived todos")
	rootCmd.Flags().BoolVarP(&finished, "finished", "f", false, "list archived todos only")
	rootCmd.Flags().StringVarP(&after, "after", "A", "", "only todos created at or after this time")
	rootCmd.Flags().StringVarP(&before, "before", "B", "", "only todos created at or before this time")

	rootCmd.AddCommand(a.addCmd())
	rootCmd.AddCommand(a.archiveCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("using config file", "path", used)
	}
	return nil
}

func (a *app) getStore() (*store.Store, error) {
	return store.Open(a.fs, a.dir,
		store.WithMarker(a.cfg.Marker),
		store.WithFiles(a.cfg.Files.Unfinished, a.cfg.Files.Archived),
		store.WithLayout(a.cfg.TimeFormat),
		store.WithLogger(a.logger),
	)
}

func (a *app) renderer(cmd *cobra.Command) *ui.Renderer {
	return ui.NewRenderer(cmd.OutOrStdout(), a.cfg.TimeFormat)
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description>",
		Short: "Add a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.TrimSpace(strings.Join(args, " "))
			if description == "" {
				return errNothingToAdd
			}

			s, err := a.getStore()
			if err != nil {
				return err
			}

			todo, err := s.AddTodo(description)
			if err != nil {
				return err
			}

			a.renderer(cmd).Added(todo)
			return nil
		},
	}
}

func (a *app) archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <index>",
		Short: "Archive the unfinished todo at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !digits.MatchString(args[0]) {
				return fmt.Errorf("%w: %q", errInvalidIndex, args[0])
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", errInvalidIndex, args[0])
			}

			s, err := a.getStore()
			if err != nil {
				return err
			}

			todo, err := s.ArchiveTodo(index)
			if err != nil {
				return err
			}

			a.renderer(cmd).Archived(todo)
			return nil
		},
	}
}

// versionCmd mirrors --version for scripts that expect a subcommand
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Overrides the root hook so a broken config file cannot hide the version.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "git-todos %s\n", version)
		},
	}
}

// parseFilter validates the --after and --before bounds
func parseFilter(after, before, layout string) (store.Filter, error) {
	var filter store.Filter
	if after != "" {
		t, err := domain.ParseTime(after, layout)
		if err != nil {
			return store.Filter{}, fmt.Errorf("--after: %w", err)
		}
		filter.After = &t
	}
	if before != "" {
		t, err := domain.ParseTime(before, layout)
		if err != nil {
			return store.Filter{}, fmt.Errorf("--before: %w", err)
		}
		filter.Before = &t
	}
	return filter, nil
}
