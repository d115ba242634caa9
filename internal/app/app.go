package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"artmarket/internal/core/auth"
	"artmarket/internal/core/cache"
	"artmarket/internal/core/config"
	"artmarket/internal/core/database"
	"artmarket/internal/core/events"
	"artmarket/internal/core/mailer"
	"artmarket/internal/core/server"
	"artmarket/internal/repo"
	"artmarket/internal/service"
	"artmarket/internal/transport/http/handler"
	mdw "artmarket/internal/transport/http/middleware"
	"artmarket/internal/transport/http/router"
)

// App holds everything built once at process start.
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB

	Cache   *cache.Cache
	Revoker auth.Revoker
	Events  events.Publisher
	Mailer  mailer.Mailer
	JWT     *auth.JWTer

	Users *repo.UserRepo

	Auth       *service.AuthService
	Artworks   *service.ArtworkService
	Categories *service.CategoryService
	Admin      *service.AdminService
	Contact    *service.ContactService

	Registry *router.Registry
	health   *handler.HealthHandler
	closers  []func() error
}

type Option func(*App)

// WithRevoker replaces the token deny-list (Redis when configured, otherwise none).
func WithRevoker(r auth.Revoker) Option { return func(a *App) { a.Revoker = r } }

// WithMailer replaces the mailer built from the smtp section.
func WithMailer(m mailer.Mailer) Option { return func(a *App) { a.Mailer = m } }

func WithPublisher(p events.Publisher) Option { return func(a *App) { a.Events = p } }

// New opens the store, migrates it when configured, and wires repos,
// services and handlers. Close releases what New opened.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Cfg: cfg, Log: log}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                log,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a.Cache = cache.Disabled()
	a.Revoker = auth.NopRevoker{}
	if cfg.Redis.Addr != "" {
		a.Cache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		a.Revoker = auth.NewRedisRevoker(a.Cache.RDB)
		a.closers = append(a.closers, a.Cache.Close)
		log.Info("redis enabled", zap.String("addr", cfg.Redis.Addr))
	}

	a.Events = events.Nop{}
	if cfg.AMQP.URL != "" {
		p, err := events.NewAMQP(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			// events are best effort; the API still serves without a broker
			log.Warn("amqp unavailable, events disabled", zap.Error(err))
		} else {
			a.Events = p
			a.closers = append(a.closers, p.Close)
		}
	}

	a.Mailer = mailer.New(cfg.SMTP, log.Named("mail"))
	a.JWT = &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.JWT.TTL()}

	for _, o := range opts {
		o(a)
	}
	pub := events.BestEffort{P: a.Events, L: log.Named("events")}

	a.Users = repo.NewUserRepo(db)
	artworks := repo.NewArtworkRepo(db)
	categories := repo.NewCategoryRepo(db)

	a.Auth = service.NewAuthService(a.Users, a.JWT, a.Revoker, a.Mailer, pub, log.Named("auth"), service.AuthOptions{
		BcryptCost:  cfg.Auth.BcryptCost,
		ResetTTL:    cfg.Auth.ResetTTL(),
		FrontendURL: cfg.App.FrontendURL,
	})
	a.Artworks = service.NewArtworkService(artworks, a.Users, pub)
	a.Categories = service.NewCategoryService(categories, a.Cache, log.Named("category"))
	a.Admin = service.NewAdminService(a.Users, a.Artworks, pub)
	a.Contact = service.NewContactService(a.Users, artworks, a.Mailer, pub)

	guard := mdw.Guard{Resolver: a.Auth, RequireActive: cfg.Auth.RequireActive, Log: log}
	pingers := map[string]handler.Pinger{"db": dbPinger{db}}
	if a.Cache.Enabled() {
		pingers["redis"] = a.Cache
	}
	a.health = handler.NewHealthHandler(pingers)
	a.Registry = router.NewRegistry(
		a.health,
		handler.NewAuthHandler(a.Auth, guard, log),
		handler.NewArtworkHandler(a.Artworks, guard, log),
		handler.NewCategoryHandler(a.Categories, guard, log),
		handler.NewContactHandler(a.Contact, log),
		handler.NewAdminHandler(a.Admin, guard, log),
	)
	return a, nil
}

func (a *App) routerOptions() router.Options {
	return router.Options{
		Log:         a.Log,
		Mode:        server.ModeFor(a.Cfg.App.Env),
		FrontendURL: a.Cfg.App.FrontendURL,
		Limits:      a.Cfg.Limits,
		Health:      a.health,
	}
}

// APIEngine serves /api/* for the SPA and public clients.
func (a *App) APIEngine() *gin.Engine { return router.NewAPIEngine(a.routerOptions(), a.Registry) }

// AdminEngine serves /admin/v1/* on the back-office port.
func (a *App) AdminEngine() *gin.Engine { return router.NewAdminEngine(a.routerOptions(), a.Registry) }

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

type dbPinger struct{ db *gorm.DB }

func (p dbPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
