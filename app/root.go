// Package app implements the main application commands.
package app

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inkwell-api/inkwell/internal/config"
	"github.com/inkwell-api/inkwell/internal/logger"
)

const (
	configPathKey     = "config_path"
	defaultConfigPath = "./etc/"
	envPrefix         = "INKWELL"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Directory holding main.toml")

	if err := viper.BindPFlag(configPathKey, rootCmd.PersistentFlags().Lookup("config")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell is a multi-tenant content and tasking API",
	Long: `Inkwell serves articles, threaded comments, likes, categories and tasks
over a JSON REST API guarded by role based permissions.`,
	Args:         cobra.OnlyValidArgs,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads main.toml from the configured directory and sets up logging.
func loadConfig() (*config.Config, error) {
	path := viper.GetString(configPathKey)
	if path == "" {
		path = defaultConfigPath
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	cfg, err := config.ReadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}
