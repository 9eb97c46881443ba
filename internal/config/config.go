// Package config loads run defaults from the environment (and an optional
// .env file). Command-line flags are layered on top by package cli.
package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Window    int    `env:"GCWIG_WINDOW"`
	Shift     int    `env:"GCWIG_SHIFT"`
	OmitTail  bool   `env:"GCWIG_OMIT_TAIL"`
	Format    string `env:"GCWIG_FORMAT" envDefault:"wiggle"`
	Threads   int    `env:"GCWIG_THREADS" envDefault:"1"`
	LogLevel  string `env:"GCWIG_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"GCWIG_LOG_FORMAT" envDefault:"console"`
}

// Init parses the environment into cfg.
func Init(cfg *Config) error {
	return env.Parse(cfg)
}

// Load reads dotenv files (".env" when none are named; a missing default
// file is not an error) and then the environment. Variables already set in
// the environment win over dotenv values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	var cfg Config
	if err := Init(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
