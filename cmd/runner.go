package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/services"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configFixed bool
	api         *services.APIService
	catalog     services.Catalog
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	sessionPath string
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is; otherwise it is loaded from --config before each command.
type RunnerOpts struct {
	Config      *shared.Config
	API         *services.APIService
	Catalog     services.Catalog
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	SessionPath string // Where the session token is stored (default ~/.shelf/session)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.SessionPath == "" {
		opts.SessionPath = defaultSessionPath()
	}

	return &Runner{
		config:      opts.Config,
		configFixed: fixed,
		api:         opts.API,
		catalog:     opts.Catalog,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		sessionPath: opts.SessionPath,
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shelf", "session")
	}
	return filepath.Join(home, ".shelf", "session")
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:      "shelf",
		Usage:     "Track the books you want to read, are reading, and have finished",
		Version:   version,
		Writer:    r.output,
		ErrWriter: r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SHELF_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error); overrides log.level",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

// before loads configuration and wires the clients every command shares.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.configFixed {
		config, err := shared.LoadOrDefault(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))

	if r.api == nil {
		r.api = services.NewAPIService(r.config.Client.ServerURL, r.httpClient)
	}
	if r.catalog == nil {
		r.catalog = services.NewOpenLibraryService(r.config.Catalog, r.httpClient, shared.WithLogger(r.logger, "component", "catalog"))
	}
	return ctx, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, migrateCommand,
		registerCommand, loginCommand, logoutCommand, whoamiCommand,
		booksCommand, activityCommand, searchCommand, trendingCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
