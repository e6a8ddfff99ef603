// Command catalogbridge is the operator-facing CLI: it runs migration jobs,
// reviews ambiguous matches, and manages the local job/user database.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/jrmoreno/catalogbridge/internal/catalog/qobuz"
	"github.com/jrmoreno/catalogbridge/internal/catalog/spotify"
	"github.com/jrmoreno/catalogbridge/internal/catalog/tidal"
	"github.com/jrmoreno/catalogbridge/internal/catalog/ytmusic"
	"github.com/jrmoreno/catalogbridge/internal/domain/job"
	"github.com/jrmoreno/catalogbridge/internal/orchestrator"
	"github.com/jrmoreno/catalogbridge/internal/review"
	"github.com/jrmoreno/catalogbridge/internal/shared"
	"github.com/jrmoreno/catalogbridge/internal/store"
	"github.com/jrmoreno/catalogbridge/internal/store/sqlite"
	"github.com/jrmoreno/catalogbridge/internal/writer"
)

// Runner holds the dependencies every subcommand's Action needs.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer

	jobs        store.Jobs
	items       store.Items
	users       store.Users
	connections store.Connections

	review *review.API
}

// RunnerConfig contains the dependencies a Runner is built from.
type RunnerConfig struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Jobs   store.Jobs
	Items  store.Items
	Users  store.Users
	Conns  store.Connections
}

// NewRunner constructs a Runner over the given stores.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Config == nil {
		cfg.Config = shared.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	return &Runner{
		config:      cfg.Config,
		logger:      cfg.Logger,
		output:      cfg.Output,
		jobs:        cfg.Jobs,
		items:       cfg.Items,
		users:       cfg.Users,
		connections: cfg.Conns,
		review:      review.New(cfg.Jobs, cfg.Items),
	}
}

func (r *Runner) writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}

func (r *Runner) writePlainln(s string) error {
	_, err := fmt.Fprintln(r.output, s)
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(r.output, string(out))
	return err
}

func (r *Runner) writerOptions() writer.Options {
	return writer.Options{
		BatchSize:       r.config.Worker.BatchSize,
		SleepSecs:       r.config.Worker.SleepSecs,
		PostCreateSleep: r.config.Worker.PostCreateSleep,
	}
}

// openStore opens the sqlite database at cfg.Database.Path, running
// migrations, and returns the repositories plus a close func.
func openStore(cfg *shared.Config) (store.Jobs, store.Items, store.Users, store.Connections, func() error, error) {
	db, err := shared.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	shared.ConfigureDatabase(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, nil, nil, nil, err
	}

	return sqlite.NewJobRepository(db), sqlite.NewItemRepository(db), sqlite.NewUserRepository(db),
		sqlite.NewConnectionRepository(db), db.Close, nil
}

// buildSource constructs the Spotify source adapter from ownerID's stored
// connection, persisting any in-place token refresh back to that
// connection's credential.
func (r *Runner) buildSource(ctx context.Context, ownerID string) (orchestrator.Sources, error) {
	conn, err := r.connections.Get(ctx, ownerID, job.Spotify)
	if err != nil {
		return nil, fmt.Errorf("%w: no spotify connection for user", shared.ErrAuthMissing)
	}

	cfg := spotify.Config{
		ClientID:     r.config.Credentials.Spotify.ClientID,
		ClientSecret: r.config.Credentials.Spotify.ClientSecret,
		RedirectURI:  r.config.Credentials.Spotify.RedirectURI,
		RefreshToken: conn.Credential,
	}
	onRefresh := func(ctx context.Context, newCredential string) error {
		conn.Credential = newCredential
		return r.connections.Upsert(ctx, conn)
	}

	client, err := spotify.New(ctx, cfg, onRefresh)
	if err != nil {
		return nil, err
	}
	return orchestrator.Sources{job.Spotify: client}, nil
}

// buildTarget constructs the target adapter for provider from ownerID's
// stored connection.
func (r *Runner) buildTarget(ctx context.Context, ownerID string, provider job.Provider) (orchestrator.Targets, error) {
	conn, err := r.connections.Get(ctx, ownerID, provider)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s connection for user", shared.ErrAuthMissing, provider)
	}

	switch provider {
	case job.YouTube:
		client, err := ytmusic.New(ytmusic.Config{RawHeaders: conn.Credential})
		if err != nil {
			return nil, err
		}
		return orchestrator.Targets{provider: client}, nil
	case job.Tidal:
		client, err := tidal.New(ctx, tidal.Config{
			ClientID:     r.config.Credentials.Tidal.ClientID,
			ClientSecret: r.config.Credentials.Tidal.ClientSecret,
		})
		if err != nil {
			return nil, err
		}
		return orchestrator.Targets{provider: client}, nil
	case job.Qobuz:
		client, err := qobuz.New(qobuz.Config{
			AppID:     r.config.Credentials.Qobuz.AppID,
			AppSecret: r.config.Credentials.Qobuz.AppSecret,
			UserToken: conn.Credential,
		})
		if err != nil {
			return nil, err
		}
		return orchestrator.Targets{provider: client}, nil
	default:
		return nil, fmt.Errorf("%w: unknown target provider %q", shared.ErrInvalidInput, provider)
	}
}

// orchestratorFor builds an Orchestrator scoped to a single job's owner and
// target provider, wiring only the two adapters that job needs.
func (r *Runner) orchestratorFor(ctx context.Context, ownerID string, target job.Provider) (*orchestrator.Orchestrator, error) {
	sources, err := r.buildSource(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	targets, err := r.buildTarget(ctx, ownerID, target)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(r.jobs, r.items, sources, targets, r.logger,
		r.config.Worker.SearchWorkers, r.config.Worker.QPS, r.writerOptions()), nil
}
