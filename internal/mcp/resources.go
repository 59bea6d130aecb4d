package mcp

import (
	"context"
	"fmt"

	"github.com/honeycarbs/plugplayers/internal/auth"
	"github.com/honeycarbs/plugplayers/internal/config"
	"github.com/honeycarbs/plugplayers/internal/domain/dashboard"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/domain/notification"
	"github.com/honeycarbs/plugplayers/internal/domain/teambuilder"
	"github.com/honeycarbs/plugplayers/internal/export"
	"github.com/honeycarbs/plugplayers/internal/lock"
	"github.com/honeycarbs/plugplayers/internal/metrics"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/internal/storage/memory"
	neo4jstore "github.com/honeycarbs/plugplayers/internal/storage/neo4j"
	redisstore "github.com/honeycarbs/plugplayers/internal/storage/redis"
	"github.com/honeycarbs/plugplayers/internal/storage/sqlite"
	"github.com/honeycarbs/plugplayers/pkg/logging"
	n4j "github.com/honeycarbs/plugplayers/pkg/neo4j"
	sheetsclient "github.com/honeycarbs/plugplayers/pkg/sheets"
)

// Resources holds every service the transports are built from
type Resources struct {
	Repos     *repository.Repositories
	Directory *identity.Directory
	Inbox     *notification.Service
	Hiring    *hiring.Service
	Dashboard *dashboard.Service
	Catalog   *teambuilder.Catalog
	Metrics   *metrics.Recorder
	// Tokens is nil when JWT_SECRET is unset and the REST API is off
	Tokens *auth.Issuer
	// Exporter is nil when Google Sheets is not configured
	Exporter *export.Exporter
}

// provideStore opens the record store selected by STORAGE_DRIVER
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.Store, func(), error) {
	var (
		store repository.Store
		err   error
	)
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err = sqlite.Open(cfg.Storage.SQLitePath)
	case config.DriverRedis:
		rs := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisstore.WithPrefix(cfg.Redis.Prefix))
		if err = rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			err = fmt.Errorf("redis: ping %s: %w", cfg.Redis.Addr, err)
		}
		store = rs
	case config.DriverNeo4j:
		var client *n4j.Client
		client, err = n4j.NewClient(ctx, provideNeo4jConfig(cfg))
		if err == nil {
			store, err = neo4jstore.NewStore(ctx, client)
			if err != nil {
				_ = client.Close(ctx)
			}
		}
	default:
		store = memory.NewStore()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}

	logger.Info("record store ready", "driver", cfg.Storage.Driver)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close record store", "driver", cfg.Storage.Driver, "err", err)
		}
	}
	return store, cleanup, nil
}

// provideNeo4jConfig extracts Neo4j config from main config
func provideNeo4jConfig(cfg config.Config) n4j.Config {
	return n4j.Config{
		URI:            cfg.Neo4j.URI,
		Username:       cfg.Neo4j.Username,
		Password:       cfg.Neo4j.Password,
		Database:       cfg.Neo4j.Database,
		MaxPoolSize:    cfg.Neo4j.MaxPoolSize,
		AcquireTimeout: cfg.Neo4j.AcquireTimeout,
	}
}

// provideLocks builds the entity lock manager, backed by Redis when
// LOCK_DISTRIBUTED is set
func provideLocks(cfg config.Config, store repository.Store, logger *logging.Logger) (*lock.Manager, func(), error) {
	logger = logger.Named("lock")
	if !cfg.Lock.Distributed {
		return lock.NewManager(lock.WithLogger(logger)), func() {}, nil
	}

	cleanup := func() {}
	var client *redisstore.Store
	if rs, ok := store.(*redisstore.Store); ok {
		client = rs
	} else {
		client = redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisstore.WithPrefix(cfg.Redis.Prefix))
		cleanup = func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close lock client", "err", err)
			}
		}
	}

	locker := redisstore.NewLocker(client.Client(), cfg.Redis.Prefix)
	logger.Info("distributed locking enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Lock.TTL)
	return lock.NewManager(lock.WithLocker(locker, cfg.Lock.TTL), lock.WithLogger(logger)), cleanup, nil
}

// provideIssuer returns nil when the REST API is disabled
func provideIssuer(cfg config.Config) (*auth.Issuer, error) {
	if !cfg.APIEnabled() {
		return nil, nil
	}
	return auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TTL)
}

// provideExporter returns nil when Google Sheets is not configured
func provideExporter(ctx context.Context, cfg config.Config, svc *hiring.Service, dir *identity.Directory, logger *logging.Logger) (*export.Exporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		return nil, err
	}
	return export.NewExporter(client, svc, dir, cfg.Sheets.SpreadsheetID, export.WithLogger(logger.Named("export")))
}

// provideHiring names the service logger and assembles the lifecycle service
func provideHiring(
	repos *repository.Repositories,
	dir *identity.Directory,
	inbox *notification.Service,
	locks *lock.Manager,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) (*hiring.Service, error) {
	return hiring.NewServiceWithDeps(repos, dir, inbox, locks, recorder, logger)
}

// provideInbox builds the notification sink
func provideInbox(repos *repository.Repositories) *notification.Service {
	return notification.NewService(repos)
}
