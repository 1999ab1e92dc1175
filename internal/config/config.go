package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"ticketpulse/internal/repositories/elsearch"
	"ticketpulse/internal/repositories/gleap"
	"ticketpulse/internal/repositories/redis"
	"ticketpulse/internal/repositories/sqlserver"
	"ticketpulse/internal/service/dashboard"
	"ticketpulse/internal/timewindow"
	"ticketpulse/pkg/logger"
)

const startupTimeout = 15 * time.Second

// App - holds every client the handlers need
type App struct {
	Settings  Settings
	Redis     *redis.RedisInternal
	ES        *elsearch.Client
	Logger    *logger.Logger
	SqlServer *sqlserver.Internal
	Gleap     *gleap.Client
	Dashboard *dashboard.Service
	StartedAt time.Time
}

// NewConfig - reads the settings and connects every backend. Redis and the
// helpdesk credentials are required; SQL Server and Elasticsearch are
// optional and their endpoints answer 503 when missing.
func NewConfig() (*App, error) {
	cfg := &App{StartedAt: time.Now()}

	settings, err := LoadSettings()
	if err != nil {
		return cfg, err
	}
	cfg.Settings = settings

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := cfg.newClientRedis(ctx); err != nil {
		return cfg, err
	}

	if err := cfg.newClientES(); err != nil && !errors.Is(err, elsearch.ErrNotConfigured) {
		return cfg, err
	}

	var es *elasticsearch.Client
	if cfg.ES != nil {
		es = cfg.ES.ES
	}
	cfg.Logger = logger.NewLogger(es, logger.Config{
		Service:       "ticketpulse",
		Version:       "1.0.0",
		Environment:   settings.Environment,
		IndexName:     "ticketpulse-logs",
		FlushInterval: 5 * time.Second,
		BatchSize:     50,
		BufferSize:    1000,
		LogLevel:      settings.LogLevel,
		EnableCaller:  true,
		ExecutionID:   uuid.New().String()[0:5],
	})
	if cfg.ES == nil {
		cfg.Logger.Warn("ELASTICSEARCH_URL not set, snapshot search disabled and logs written to stdout")
	}

	sqlServer, err := sqlserver.NewSQLServerInternal(ctx)
	switch {
	case errors.Is(err, sqlserver.ErrNotConfigured):
		cfg.Logger.Warn("SQLSERVER_HOST not set, snapshot persistence disabled")
	case err != nil:
		return cfg, fmt.Errorf("creating sqlserver client: %w", err)
	default:
		cfg.SqlServer = sqlServer
	}

	client, err := gleap.NewClient(settings.Gleap, cfg.Redis)
	if err != nil {
		return cfg, fmt.Errorf("creating gleap client: %w", err)
	}
	cfg.Gleap = client

	if err := cfg.newDashboard(ctx); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// CloseAll - a function that closes all connections
func (cfg *App) CloseAll() {
	if cfg.Logger != nil {
		_ = cfg.Logger.Close()
	}

	if cfg.Redis != nil {
		_ = cfg.Redis.Redis.Close()
	}

	if cfg.SqlServer != nil {
		_ = cfg.SqlServer.Close()
	}
}

// newClientRedis is a function that returns a new Redis client
func (cfg *App) newClientRedis(ctx context.Context) error {
	r, err := redis.NewRedisInternal(ctx)
	if err != nil {
		return errors.New("creating redis client: " + err.Error())
	}

	cfg.Redis = r

	return nil
}

func (cfg *App) newClientES() error {
	es, err := elsearch.NewClient(&elsearch.Config{
		MaxRetries:         3,
		RetryBackoff:       100 * time.Millisecond,
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
	})
	if err != nil {
		if errors.Is(err, elsearch.ErrNotConfigured) {
			return err
		}
		return errors.New("creating elastic client: " + err.Error())
	}

	cfg.ES = es
	return nil
}

// newDashboard builds the view service. The snapshot backends are handed
// over as untyped nils when absent so the service sees them as unset.
func (cfg *App) newDashboard(ctx context.Context) error {
	planner := timewindow.NewPlanner()
	planner.MaxDays = cfg.Settings.MaxDays
	planner.HourlyMaxDays = cfg.Settings.HourlyMaxDays

	svc := dashboard.New(cfg.Gleap, cfg.Gleap, dashboard.Options{
		FanoutBatchSize: cfg.Settings.FanoutBatchSize,
		Planner:         planner,
		Roster:          cfg.Settings.Roster,
		OpenLimit:       cfg.Settings.OpenLimit,
	})

	var store dashboard.SnapshotStore
	if cfg.SqlServer != nil {
		store = cfg.SqlServer
	}
	var index dashboard.SnapshotIndex
	if cfg.ES != nil {
		if err := cfg.ES.EnsureSnapshotIndex(ctx); err != nil {
			return fmt.Errorf("creating snapshot index: %w", err)
		}
		index = cfg.ES
	}

	cfg.Dashboard = svc.WithSnapshots(store, index)
	return nil
}
