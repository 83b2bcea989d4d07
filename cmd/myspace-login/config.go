package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/goliatone/go-socialauth/core"
	"github.com/goliatone/go-socialauth/providers/myspace"
	sqlstore "github.com/goliatone/go-socialauth/store/sql"
	"github.com/joho/godotenv"
)

type config struct {
	Addr      string        `env:"ADDR" envDefault:":8080"`
	PublicURL string        `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	Retention time.Duration `env:"ACTIVITY_RETENTION" envDefault:"720h"`

	ConsumerKey       string        `env:"MYSPACE_CONSUMER_KEY,required"`
	ConsumerSecret    string        `env:"MYSPACE_CONSUMER_SECRET,required"`
	Permission        string        `env:"MYSPACE_PERMISSION" envDefault:"default"`
	CustomPermissions string        `env:"MYSPACE_CUSTOM_PERMISSIONS"`
	Timeout           time.Duration `env:"MYSPACE_TIMEOUT" envDefault:"15s"`

	DB sqlstore.Config
}

// loadConfig reads an optional .env file and then the process environment.
func loadConfig(files ...string) (config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.PublicURL = strings.TrimRight(strings.TrimSpace(cfg.PublicURL), "/")
	return cfg, nil
}

func (c config) providerConfig() core.ProviderConfig {
	return core.ProviderConfig{
		ConsumerKey:       c.ConsumerKey,
		ConsumerSecret:    c.ConsumerSecret,
		Domain:            myspace.PropertyDomain,
		Permission:        c.Permission,
		CustomPermissions: c.CustomPermissions,
	}
}

func (c config) callbackURL() string {
	return c.PublicURL + "/callback"
}
