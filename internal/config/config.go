package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream fireball data sources.
	NASABaseURL string
	AMSEnabled  bool
	AMSBaseURL  string
	AMSLimit    int

	// Outbound fetch behavior shared by all source adapters.
	FetchTimeout     time.Duration
	FetchMaxRetries  int
	FetchBaseDelay   time.Duration
	FetchInsecureTLS bool

	// Media enrichment configuration.
	MediaEnabled   bool
	MediaTimeout   time.Duration
	ImagesBaseURL  string
	YouTubeBaseURL string
	YouTubeAPIKey  string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	fetchBaseDelay, err := parseDuration("FETCH_BASE_DELAY", "1s")
	if err != nil {
		return nil, err
	}

	mediaTimeout, err := parseDuration("MEDIA_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := parsePositiveInt("FETCH_MAX_RETRIES", 3)
	if err != nil {
		return nil, err
	}

	amsLimit, err := parsePositiveInt("AMS_LIMIT", 50)
	if err != nil {
		return nil, err
	}

	mediaEnabled := true
	if v := os.Getenv("MEDIA_ENABLED"); v != "" {
		mediaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        listenAddr(),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NASABaseURL: envOrDefault("NASA_API_URL", "https://ssd-api.jpl.nasa.gov/fireball.api"),
		AMSEnabled:  os.Getenv("AMS_ENABLED") == "true",
		AMSBaseURL:  os.Getenv("AMS_API_URL"),
		AMSLimit:    amsLimit,

		FetchTimeout:     fetchTimeout,
		FetchMaxRetries:  maxRetries,
		FetchBaseDelay:   fetchBaseDelay,
		FetchInsecureTLS: os.Getenv("FETCH_INSECURE_TLS") == "true",

		MediaEnabled:   mediaEnabled,
		MediaTimeout:   mediaTimeout,
		ImagesBaseURL:  envOrDefault("IMAGES_API_URL", "https://images-api.nasa.gov"),
		YouTubeBaseURL: envOrDefault("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
	}

	if cfg.AMSEnabled && cfg.AMSBaseURL == "" {
		return nil, errors.New("AMS_ENABLED is true but AMS_API_URL is not set")
	}

	return cfg, nil
}

// listenAddr resolves the listen address. HTTP_ADDR wins; a bare PORT value
// (the convention used by most container platforms) is also accepted.
func listenAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8080"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
