package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/denmats/apihub/internal/auth"
	"github.com/denmats/apihub/internal/config"
	"github.com/denmats/apihub/internal/db"
	"github.com/denmats/apihub/internal/db/drivers"
	"github.com/denmats/apihub/internal/db/models"
	"github.com/denmats/apihub/internal/db/repository"
	"github.com/denmats/apihub/internal/services/keys"
	"github.com/denmats/apihub/internal/services/limiter"
	"github.com/denmats/apihub/internal/services/summarizer"
	"github.com/denmats/apihub/pkg/logger"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type App struct {
	db         *bun.DB
	config     *config.Config
	ctx        context.Context
	cancelFunc context.CancelFunc

	Logger *zap.Logger

	APIKeyRepository     repository.IAPIKeyRepository
	UserRepository       repository.IUserRepository
	UsageEventRepository repository.IUsageEventRepository

	Keys       *keys.Service
	Limiter    *limiter.Limiter
	Summarizer *summarizer.Service

	Sessions     *auth.SessionManager
	OAuthState   *auth.StateStore
	AuthProvider auth.Provider
}

// Option funcs used to initialize the App struct
type OptionFunc func(app *App) error

func WithDB(driver drivers.Driver) OptionFunc {
	return func(app *App) error {
		app.db = driver.GetDB()
		return app.initModel()
	}
}

func WithDBInitialization() OptionFunc {
	return func(app *App) error {
		driver, err := db.NewConnection(app.ctx, app.config)
		if err != nil {
			return err
		}
		app.db = driver.GetDB()

		if err := InitTables(app.ctx, app.db); err != nil {
			return err
		}

		return app.initModel()
	}
}

func WithAuth() OptionFunc {
	return func(app *App) error {
		cfg := app.config.Auth

		key, err := hex.DecodeString(cfg.SessionSecret)
		if err != nil || len(key) != 32 {
			return fmt.Errorf("auth.session_secret must be 32 hex-encoded bytes")
		}

		secure := app.config.Environment == "prod"
		duration := time.Duration(cfg.SessionDuration) * time.Minute

		sessions, err := auth.NewSessionManager(key, duration, secure)
		if err != nil {
			return err
		}

		state, err := auth.NewStateStore(key, secure)
		if err != nil {
			return err
		}

		var provider auth.Provider
		switch cfg.Provider {
		case "github":
			provider = auth.NewGitHubProvider(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL)
		case "oidc":
			provider, err = auth.NewOIDCProvider(app.ctx, cfg.IssuerURL, cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid auth provider: %s", cfg.Provider)
		}

		app.Sessions = sessions
		app.OAuthState = state
		app.AuthProvider = provider
		return nil
	}
}

func WithSummarizer() OptionFunc {
	return func(app *App) error {
		svc, err := summarizer.NewService(app.config, app.Logger)
		if err != nil {
			return err
		}

		app.Summarizer = svc
		return nil
	}
}

func NewApp(cfg *config.Config, options ...OptionFunc) (*App, error) {
	l, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		ctx:        ctx,
		config:     cfg,
		Logger:     l,
		cancelFunc: cancel,
	}

	for _, opt := range options {
		if err := opt(app); err != nil {
			cancel()
			return nil, err
		}
	}

	return app, nil
}

// initModel builds the repositories and the services on top of them. The
// database must be attached first.
func (app *App) initModel() error {
	if app.db == nil {
		return fmt.Errorf("database is not initialized")
	}

	app.APIKeyRepository = repository.NewAPIKeyRepository(app.db)
	app.UserRepository = repository.NewUserRepository(app.db)
	app.UsageEventRepository = repository.NewUsageEventRepository(app.db)

	app.Keys = keys.NewService(app.APIKeyRepository, app.Logger, app.config.Keys.DefaultUsageLimit)
	app.Limiter = limiter.New(app.APIKeyRepository, app.UsageEventRepository, app.Logger)

	return nil
}

// InitTables ensures the schema exists. Also used by the migrate command.
func InitTables(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		tables := []interface{}{
			(*models.User)(nil),
			(*models.APIKey)(nil),
			(*models.UsageEvent)(nil),
		}

		for _, table := range tables {
			if _, err := tx.NewCreateTable().
				Model(table).
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}
		return nil
	})
}

func (app *App) Close() {
	app.cancelFunc()

	if app.Limiter != nil {
		app.Limiter.Close()
	}

	if app.db != nil {
		app.db.Close()
	}

	if app.Logger != nil {
		app.Logger.Sync()
	}
}

func (app *App) Config() *config.Config {
	return app.config
}

func (app *App) Context() context.Context {
	return app.ctx
}

func (app *App) DB() *bun.DB {
	return app.db
}
