// internal/app/container.go
package app

import (
	"context"
	"fmt"

	"taskdesk/internal/config"
	"taskdesk/internal/db"
	"taskdesk/internal/metrics"
	"taskdesk/internal/pkg/apiclient"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/querycache"
	"taskdesk/internal/pkg/session"
	"taskdesk/internal/pkg/storage"
	authUsecase "taskdesk/internal/service/auth"
	categoryUsecase "taskdesk/internal/service/category"
	taskUsecase "taskdesk/internal/service/task"

	"go.uber.org/zap"
)

// Container holds the client-side pipeline shared by the console and the
// CLI: storage, session, API client, query cache and services.
type Container struct {
	Config  config.AppConfig
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Storage storage.Storage
	Session *session.Store
	Client  *apiclient.Client
	Cache   *querycache.Cache

	Auth       *authUsecase.AuthService
	Tasks      *taskUsecase.TaskService
	Categories *categoryUsecase.CategoryService

	closers []func() error
}

type ContainerOption func(*containerOptions)

type containerOptions struct {
	storage   storage.Storage
	clientOpt []apiclient.Option
}

// WithStorage bypasses the configured storage driver.
func WithStorage(st storage.Storage) ContainerOption {
	return func(o *containerOptions) { o.storage = st }
}

func WithClientOptions(opts ...apiclient.Option) ContainerOption {
	return func(o *containerOptions) { o.clientOpt = append(o.clientOpt, opts...) }
}

// NewContainer wires the pipeline and restores any persisted session. nav
// receives forced navigations after a 401.
func NewContainer(
	ctx context.Context,
	cfg config.AppConfig,
	logger *zap.Logger,
	nav navigation.Navigator,
	opts ...ContainerOption,
) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var o containerOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	// ----- Storage -----
	st := o.storage
	if st == nil {
		var err error
		st, err = c.openStorage()
		if err != nil {
			return nil, err
		}
	}
	c.Storage = st

	// ----- Session -----
	c.Session = session.NewStore(st, logger.Named("session"))
	if err := c.Session.Rehydrate(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	// ----- API client & cache -----
	clientOpts := append([]apiclient.Option{apiclient.WithMetrics(c.Metrics)}, o.clientOpt...)
	c.Client = apiclient.New(cfg.APIBaseURL, st, c.Session, nav, logger.Named("apiclient"), clientOpts...)
	c.Cache = querycache.New(logger.Named("querycache"), c.Metrics)

	// ----- Services -----
	c.Auth = authUsecase.NewAuthService(c.Client, c.Session, c.Cache, logger.Named("auth"))
	c.Tasks = taskUsecase.NewTaskService(c.Client, c.Cache, logger.Named("tasks"))
	c.Categories = categoryUsecase.NewCategoryService(c.Client, c.Cache, logger.Named("categories"))

	return c, nil
}

func (c *Container) openStorage() (storage.Storage, error) {
	switch c.Config.StorageDriver {
	case config.StorageMemory:
		return storage.NewMemoryStorage(), nil

	case config.StorageRedis:
		addrs := c.Config.RedisAddresses()
		client, err := db.NewRedis(db.RedisConfig{
			ClusterMode: len(addrs) > 1,
			Addresses:   addrs,
			Password:    c.Config.RedisPass,
			DB:          c.Config.RedisDB,
			PoolSize:    4,
		})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		c.Logger.Debug("using redis storage", zap.Strings("addrs", addrs))
		return storage.NewRedisStorage(client, c.Config.RedisPrefix), nil

	default:
		fs, err := storage.NewFileStorage(c.Config.StoragePath)
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using file storage", zap.String("path", fs.Path()))
		return fs, nil
	}
}

// Close releases the storage connection, if any.
func (c *Container) Close() error {
	var first error
	for _, fn := range c.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}

// NewLogger builds the console logger: production JSON by default,
// development output when APP_ENV=development.
func NewLogger(cfg config.AppConfig) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
