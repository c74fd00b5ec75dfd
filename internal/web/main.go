// Package web assembles the fiber application: middleware, operational routes and the API handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-api/inkwell/internal/auth"
	"github.com/inkwell-api/inkwell/internal/config"
	fiberlogger "github.com/inkwell-api/inkwell/internal/logger/adapter/fiber"
	"github.com/inkwell-api/inkwell/internal/web/handler"
	"github.com/inkwell-api/inkwell/internal/web/handler/account"
	"github.com/inkwell-api/inkwell/internal/web/handler/article"
	"github.com/inkwell-api/inkwell/internal/web/handler/category"
	"github.com/inkwell-api/inkwell/internal/web/handler/comment"
	"github.com/inkwell-api/inkwell/internal/web/handler/like"
	"github.com/inkwell-api/inkwell/internal/web/handler/role"
	"github.com/inkwell-api/inkwell/internal/web/handler/task"
	"github.com/inkwell-api/inkwell/internal/web/handler/user"
	"github.com/inkwell-api/inkwell/internal/web/metrics"
)

const (
	// CheckAlivePath answers 200 while the service takes traffic and 503 while draining.
	CheckAlivePath = "/checkalive"
	// MetricsPath exposes the prometheus collectors.
	MetricsPath = "/metrics"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	tokens       *auth.TokenService
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the http server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
		db:           db,
		tokens:       auth.NewTokenService(&cfg.Auth),
	}

	// counts the final status, so it wraps the access log which renders errors
	app.Use(metrics.Middleware())

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserID:        auth.CurrentUserID,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(auth.Authenticate(db, service.tokens))

	if cfg.Webserver.RateLimit.Enabled {
		useRateLimit(app, cfg)
	}

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(handler.APIPrefix)

	services := []handler.Service{
		&account.Handler,
		&role.Handler,
		&user.Handler,
		&article.Handler,
		&comment.Handler,
		&like.Handler,
		&category.Handler,
		&task.Handler,
	}

	for _, h := range services {
		if err := h.Init(api, cfg, db); err != nil {
			log.Fatal().Err(err).Msg("failed to init handler")
		}
	}

	service.alive.Store(true)

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendStatus(fiber.StatusOK)
}
