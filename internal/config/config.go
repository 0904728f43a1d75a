package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// defaultFeedURL is the USGS worldwide feed: last ~30 days, magnitude >= 2.5.
const defaultFeedURL = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_month.geojson"

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL     string
	FeedTimeout time.Duration

	TableName     string
	WebsiteBucket string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterTimeout time.Duration
	HFToken           string
	HFTimeout         time.Duration

	MaxItems        int
	SummariesToKeep int

	RunInterval time.Duration
	RunOnce     bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. The website bucket has no sensible default and is required;
// provider credentials are optional and their absence disables the provider.
func Load() (*Config, error) {
	feedTimeout, err := parseDuration("FEED_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	openRouterTimeout, err := parseDuration("OPENROUTER_TIMEOUT", "40s")
	if err != nil {
		return nil, err
	}
	hfTimeout, err := parseDuration("HF_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	runInterval, err := parseDuration("RUN_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	maxItems, err := parsePositiveInt("MAX_ITEMS", 40)
	if err != nil {
		return nil, err
	}
	keep, err := parsePositiveInt("SUMMARIES_TO_KEEP", 50)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:     envOrDefault("USGS_URL", defaultFeedURL),
		FeedTimeout: feedTimeout,

		TableName:     envOrDefault("DDB_TABLE", "disaster_alerts"),
		WebsiteBucket: os.Getenv("WEBSITE_BUCKET"),

		OpenRouterAPIKey:  os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:   envOrDefault("MODEL", "qwen/qwen-2.5-7b-instruct"),
		OpenRouterTimeout: openRouterTimeout,
		HFToken:           os.Getenv("HF_TOKEN"),
		HFTimeout:         hfTimeout,

		MaxItems:        maxItems,
		SummariesToKeep: keep,

		RunInterval: runInterval,
		RunOnce:     os.Getenv("RUN_ONCE") == "true",

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.WebsiteBucket == "" {
		return nil, errors.New("WEBSITE_BUCKET is required")
	}
	if cfg.FeedURL == "" {
		return nil, errors.New("USGS_URL must not be empty")
	}

	return cfg, nil
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
