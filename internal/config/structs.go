package config

import (
	"time"

	"github.com/inkwell-api/inkwell/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool      // disable recover middleware
	Port           int       // listening port for the webserver
	ShutDownTime   int       // wait time for shutdown
	URL            string    // base url for the webserver
	RateLimit      RateLimit // throttling of the credential endpoints
}

// RateLimit configures the limiter in front of login and forgot-password.
type RateLimit struct {
	Enabled    bool
	Max        int
	Expiration time.Duration
}

// Auth holds the credential service settings.
type Auth struct {
	JWTSecret       string `env:"INKWELL_JWT_SECRET, overwrite"`
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	DefaultRole     string // role assigned on self registration, empty to disable
}
