// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
)

const (
	// EnvConfigJSON holds a JSON document merged over the TOML configuration.
	EnvConfigJSON = "INKWELL_CONFIG_JSON"

	// minJWTSecretLen is the shortest HMAC secret accepted for token signing.
	minJWTSecretLen = 32
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	// secrets are usually injected one by one
	if err = envconfig.Process(context.Background(), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read config secrets from env")
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without
// and fills defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLen {
		return errors.Wrap(ErrJWTSecretTooShort, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrapf(ErrUnknownGormEngine, "%s: %q", invalidErrMessage, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Auth.AccessTokenTTL == 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}

	if c.Auth.RefreshTokenTTL == 0 {
		c.Auth.RefreshTokenTTL = 24 * time.Hour
	}

	if c.Auth.ResetTokenTTL == 0 {
		c.Auth.ResetTokenTTL = 72 * time.Hour
	}

	if c.Webserver.RateLimit.Expiration == 0 {
		c.Webserver.RateLimit.Expiration = time.Minute
	}

	if c.Webserver.RateLimit.Max == 0 {
		c.Webserver.RateLimit.Max = 10
	}

	return nil
}
