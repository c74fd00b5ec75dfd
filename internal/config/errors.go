package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrJWTSecretTooShort error if the token signing secret is missing or weak.
	ErrJWTSecretTooShort = errors.New("auth.jwtsecret must be at least 32 characters")

	// ErrUnknownGormEngine error if db.gormengine names an unsupported driver.
	ErrUnknownGormEngine = errors.New("unknown db.gormengine")
)
