package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type Config struct {
	Address        string        `env:"RUN_ADDRESS" envDefault:"localhost:8080"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"INFO"`
	StoreURL       string        `env:"STORE_URL"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	StoreAttempts  int           `env:"STORE_MAX_ATTEMPTS" envDefault:"3"`
	StoreRetryBase time.Duration `env:"STORE_RETRY_BASE" envDefault:"400ms"`
	ModelAPIKey    string        `env:"MODEL_API_KEY"`
	ModelTimeout   time.Duration `env:"MODEL_TIMEOUT" envDefault:"30s"`
	NotifyURL      string        `env:"NOTIFY_URL"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dontexposethis"`
	JWTTTL         time.Duration `env:"JWT_TTL" envDefault:"24h"`
	TaskWorkers    int           `env:"TASK_WORKERS" envDefault:"4"`
	TaskQueue      int           `env:"TASK_QUEUE" envDefault:"64"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	address := flag.String("a", cfg.Address, "{Host:port} for server")
	loglevel := flag.String("l", cfg.LogLevel, "Log level for server")
	storeURL := flag.String("s", cfg.StoreURL, "Base URL of the document store")
	modelKey := flag.String("k", cfg.ModelAPIKey, "API key for the model provider")
	notifyURL := flag.String("n", cfg.NotifyURL, "Order notification relay URL")
	taskWorkers := flag.Int("w", cfg.TaskWorkers, "Size of background task worker pool")
	jwtTTL := flag.Duration("t", cfg.JWTTTL, "TTL for JWT token(e.g. 24h; 30m )")

	flag.Parse()

	cfg.Address = *address
	cfg.LogLevel = *loglevel
	cfg.StoreURL = *storeURL
	cfg.ModelAPIKey = *modelKey
	cfg.NotifyURL = *notifyURL
	cfg.TaskWorkers = *taskWorkers
	cfg.JWTTTL = *jwtTTL

	if cfg.StoreURL == "" {
		return nil, fmt.Errorf("ENV STORE_URL or -s must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("ENV JWT_SECRET must be set")
	}

	return cfg, nil
}
