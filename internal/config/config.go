package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds settings shared by every binary
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" required:"true"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// Store holds the SQLite store settings
type Store struct {
	Path          string `envconfig:"STORE_PATH" default:"test_system.db"`
	BusyTimeoutMs int    `envconfig:"STORE_BUSY_TIMEOUT_MS" default:"5000"`
}

// SQS holds the queue settings for the bulk ingestion path
type SQS struct {
	Endpoint string `envconfig:"SQS_ENDPOINT"`
	QueueURL string `envconfig:"SQS_QUEUE_URL" required:"true"`
	Region   string `envconfig:"SQS_REGION" required:"true"`
}

// Consumer holds the ingestion worker settings
type Consumer struct {
	MaxMessages     int32  `envconfig:"CONSUMER_MAX_MESSAGES" default:"10"`
	WaitTimeSeconds int32  `envconfig:"CONSUMER_WAIT_TIME_SECONDS" default:"20"`
	BufferSize      int    `envconfig:"CONSUMER_BUFFER_SIZE" default:"100"`
	HealthCheckPort string `envconfig:"CONSUMER_HEALTH_CHECK_PORT" default:"8081"`
}

type Config struct {
	Service  Service
	Store    Store
	SQS      SQS
	Consumer Consumer
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
