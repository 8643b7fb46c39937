package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/repositories"
	"github.com/desertthunder/crates/internal/services"
	"github.com/desertthunder/crates/internal/shared"
	"github.com/desertthunder/crates/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	api        *services.APIService
	requests   *repositories.RequestRepository
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Dependencies left nil are built from the configuration before the first command runs.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	API        *services.APIService
	Requests   *repositories.RequestRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		api:        opts.API,
		requests:   opts.Requests,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.catalog != nil {
		r.engine = tasks.NewEngine(r.catalog, r.logger)
	}
	return r
}

// SetLogger replaces the logger used by the runner and its engine.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.catalog != nil {
		r.engine = tasks.NewEngine(r.catalog, l)
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, albumsCommand, songsCommand, apiCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// bootstrap loads the configuration and wires the backend clients and journal.
func (r *Runner) bootstrap(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	if r.config == nil {
		config, err := r.loadConfig()
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	// an injected catalog carries its own observer
	if r.requests == nil && r.catalog == nil && r.config.Database.Journal {
		if db, err := shared.OpenJournal(r.config.Database); err != nil {
			r.logger.Warn("request journal unavailable", "path", r.config.Database.Path, "error", err)
		} else {
			r.db = db
			r.requests = repositories.NewRequestRepository(db)
		}
	}

	if r.catalog == nil {
		opts := services.CatalogOptions{
			BaseURL:           r.config.Backend.BaseURL,
			APIPrefix:         r.config.Backend.APIPrefix,
			HTTPClient:        r.httpClient,
			Timeout:           r.config.Backend.Timeout(),
			RequestsPerSecond: r.config.Backend.RequestsPerSecond,
			Token:             r.config.Backend.Token,
		}
		if r.requests != nil {
			opts.Observer = repositories.NewJournal(r.requests, r.logger).Observe
		}
		r.catalog = services.NewCatalogService(opts)
		r.engine = tasks.NewEngine(r.catalog, r.logger)
	}

	if r.api == nil {
		r.api = services.NewAPIService(r.config.Backend.BaseURL, r.httpClient)
	}

	return ctx, nil
}

// loadConfig reads the config file, falling back to the embedded defaults when it does not exist.
func (r *Runner) loadConfig() (*shared.Config, error) {
	if _, err := os.Stat(r.configPath); errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		return shared.DefaultConfig(), nil
	}

	config, err := shared.LoadConfig(r.configPath)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded config", "path", r.configPath, "backend", config.Backend.BaseURL)
	return config, nil
}

func (r *Runner) shutdown(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

// watch prints progress updates until the returned stop func is called.
// A quiet watch only logs them, leaving the output to the formatted result.
func (r *Runner) watch(quiet bool) (chan<- tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug("progress", "phase", update.Phase, "step", update.Step, "total", update.Total, "message", update.Message)
			if !quiet {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
}
