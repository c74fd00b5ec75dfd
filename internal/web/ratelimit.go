package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/db/dsn"
	"github.com/inkwell-api/inkwell/internal/web/handler"
	"github.com/inkwell-api/inkwell/internal/web/handler/account"
)

// rateLimitTable holds the limiter counters in the application database.
const rateLimitTable = "rate_limits"

// throttledPaths are the credential endpoints guarded by the limiter.
var throttledPaths = []string{ //nolint:gochecknoglobals
	handler.APIPrefix + account.LoginPath,
	handler.APIPrefix + account.ForgotPasswordPath,
}

// newLimiterStorage keeps the counters next to the data so every instance shares them.
// SQLite deployments are single instance and use the limiter's in-memory store.
func newLimiterStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         rateLimitTable,
		})
	case config.EnginePostgres:
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         rateLimitTable,
		})
	default:
		return nil
	}
}

// useRateLimit throttles POSTs to the credential endpoints per client IP and path.
// The limiter is bound to the exact routes; paths merely sharing a prefix are not throttled.
// It must be registered before the account handler's routes.
func useRateLimit(app fiber.Router, cfg *config.Config) {
	storage := newLimiterStorage(cfg)

	for _, path := range throttledPaths {
		app.Post(path, limiter.New(limiter.Config{
			Max:        cfg.Webserver.RateLimit.Max,
			Expiration: cfg.Webserver.RateLimit.Expiration,
			KeyGenerator: func(c *fiber.Ctx) string {
				return path + "|" + c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				log.Warn().Str("ip", c.IP()).Str("path", path).Msg("rate limit reached")

				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "Request was throttled."})
			},
			Storage: storage,
		}))
	}
}
