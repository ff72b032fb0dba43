package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/flixfile/flixctl/internal/api"
	"github.com/flixfile/flixctl/internal/favorites"
	"github.com/flixfile/flixctl/internal/session"
	"github.com/flixfile/flixctl/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	client   *api.Client
	sessions session.Store
	db       *sql.DB
	logger   *log.Logger
	output   io.Writer
	coord    *favorites.Coordinator
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Client   *api.Client
	Sessions session.Store
	DB       *sql.DB
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewMemoryStore()
	}
	if opts.Client == nil {
		opts.Client = api.NewClient(api.ClientOpts{
			BaseURL:  opts.Config.API.BaseURL,
			Sessions: opts.Sessions,
			Logger:   opts.Logger,
			Rate:     opts.Config.API.Rate,
			Burst:    opts.Config.API.Burst,
		})
	}

	return &Runner{
		config:   opts.Config,
		client:   opts.Client,
		sessions: opts.Sessions,
		db:       opts.DB,
		logger:   opts.Logger,
		output:   opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, profileCommand, favoritesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, e.g. to redirect to a file while the
// TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// requireSession returns the current session or tells the user how to get one.
func (r *Runner) requireSession() (session.Session, error) {
	sess, ok := r.sessions.Current()
	if !ok {
		return session.Session{}, fmt.Errorf("%w: run 'flixctl auth login' first", shared.ErrUnauthenticated)
	}
	return sess, nil
}

// coordinator returns a favorites coordinator for the signed-in user,
// creating one on first use and discarding it when the user changes.
func (r *Runner) coordinator(username string) *favorites.Coordinator {
	if r.coord == nil || r.coord.Username() != username {
		r.coord = favorites.NewCoordinator(r.client, username, r.logger)
	}
	return r.coord
}

// resolveMovie finds a catalog entry by id or title (case-insensitive).
func (r *Runner) resolveMovie(ctx context.Context, query string) (api.Movie, error) {
	movies, err := r.client.Movies(ctx)
	if err != nil {
		return api.Movie{}, err
	}

	for _, movie := range movies {
		if movie.ID == query || strings.EqualFold(movie.Title, query) {
			return movie, nil
		}
	}

	return api.Movie{}, fmt.Errorf("%w: %q", shared.ErrMovieNotFound, query)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
