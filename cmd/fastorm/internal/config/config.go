// Package config loads CLI configuration from config files, .env files,
// and environment variables.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	DatabasePath string
	Debug        bool
}

// Load reads configuration from, in increasing priority: defaults, a
// .fastorm.yaml config file (working directory or home), a .env file,
// and FASTORM_-prefixed environment variables.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".fastorm")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "fastorm"))

	viper.SetEnvPrefix("FASTORM")
	viper.AutomaticEnv()

	viper.SetDefault("database_path", "fastorm.db")
	viper.SetDefault("debug", false)

	// Config file is optional.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	return &Config{
		DatabasePath: viper.GetString("database_path"),
		Debug:        viper.GetBool("debug"),
	}, nil
}
