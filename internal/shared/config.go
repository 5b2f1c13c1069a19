package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string

	PlacesBase string
	PlacesKey  string
	PlacesRPS  int

	WeatherBase string
	WeatherKey  string

	OpenAIBase  string
	OpenAIKey   string
	OpenAIModel string

	FetchWorkers    int
	FetchTimeout    time.Duration
	WeatherTimeout  time.Duration
	GenerateTimeout time.Duration
	CacheTTL        time.Duration
	DiagDir         string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	secs := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Second
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		PlacesBase:      env("PLACES_BASE_URL", "https://places.googleapis.com"),
		PlacesKey:       env("PLACES_API_KEY", ""),
		PlacesRPS:       atoi("PLACES_RPS", 5),
		WeatherBase:     env("WEATHER_BASE_URL", "https://api.weatherapi.com"),
		WeatherKey:      env("WEATHER_API_KEY", ""),
		OpenAIBase:      env("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIKey:       env("OPENAI_API_KEY", ""),
		OpenAIModel:     env("OPENAI_MODEL", "gpt-4o-mini"),
		FetchWorkers:    atoi("FETCH_WORKERS", 6),
		FetchTimeout:    secs("FETCH_TIMEOUT_SECONDS", 10),
		WeatherTimeout:  secs("WEATHER_TIMEOUT_SECONDS", 5),
		GenerateTimeout: secs("GENERATE_TIMEOUT_SECONDS", 60),
		CacheTTL:        secs("CACHE_TTL_SECONDS", 900),
		DiagDir:         env("DIAG_DIR", os.TempDir()),
	}
	if c.PlacesKey == "" {
		log.Warn().Msg("PLACES_API_KEY is empty")
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
