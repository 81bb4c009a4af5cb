package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	ServiceID       string
	APIKey          string
	BaseURL         string // empty: derived from ServiceID
	CMSTimeout      time.Duration
	HomeLimit       int
	ExportPageSize  int
	ExportWorkers   int
	ShutdownTimeout time.Duration
}

// Load reads the process environment. A .env file in the working directory,
// when present, is loaded first; variables already set win over it.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/onsen?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		ServiceID:       env("MICROCMS_SERVICE_ID", "00y7aqc3z0"),
		APIKey:          env("MICROCMS_API_KEY", ""),
		BaseURL:         env("MICROCMS_BASE_URL", ""),
		CMSTimeout:      time.Duration(atoi("MICROCMS_TIMEOUT_SECONDS", 10)) * time.Second,
		HomeLimit:       atoi("HOME_LIMIT", 100),
		ExportPageSize:  atoi("EXPORT_PAGE_SIZE", 100),
		ExportWorkers:   atoi("EXPORT_WORKERS", 4),
		ShutdownTimeout: time.Duration(atoi("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if c.APIKey == "" {
		log.Warn().Msg("MICROCMS_API_KEY is empty; only public endpoints will answer")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
