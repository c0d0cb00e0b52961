// Package config reads service settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

var ErrNoTokenKey = errors.New("TOKEN_KEY environment variable is not set")

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	DatabaseURL string
	TokenKey    string
	CasingTable string
	DrillTable  string
	LogLevel    string
	LogFormat   string
	RateLimit   rate.Limit
	RateBurst   int
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

// Load reads files (".env" when none are given) into the process environment
// and builds a Config. Missing files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	c := Config{
		Addr:        getenv("ADDR", ":443"),
		TLSCert:     os.Getenv("TLS_CERT"),
		TLSKey:      os.Getenv("TLS_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TokenKey:    os.Getenv("TOKEN_KEY"),
		CasingTable: os.Getenv("CASING_TABLE"),
		DrillTable:  os.Getenv("DRILL_TABLE"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "text"),
	}

	limit, err := strconv.ParseFloat(getenv("RATE_LIMIT", "1"), 64)
	if err != nil || limit <= 0 {
		return c, fmt.Errorf("RATE_LIMIT: invalid value %q", os.Getenv("RATE_LIMIT"))
	}
	c.RateLimit = rate.Limit(limit)

	c.RateBurst, err = strconv.Atoi(getenv("RATE_BURST", "3"))
	if err != nil || c.RateBurst <= 0 {
		return c, fmt.Errorf("RATE_BURST: invalid value %q", os.Getenv("RATE_BURST"))
	}
	return c, nil
}

// Validate checks the settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if c.TokenKey == "" {
		return ErrNoTokenKey
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("TLS_CERT and TLS_KEY must be set together")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
