// Package config loads the notifyd and notifyctl settings from NOTIFY_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const Prefix = "NOTIFY_"

// Storage backends.
const (
	BackendMemory = "memory"
	BackendIPFS   = "ipfs"
	BackendS3     = "s3"
)

type Config struct {
	Chain    Chain    `envPrefix:"CHAIN_"`
	Storage  Storage  `envPrefix:"STORAGE_"`
	Broker   Broker   `envPrefix:"BROKER_"`
	Dispatch Dispatch `envPrefix:"DISPATCH_"`
	Log      Log      `envPrefix:"LOG_"`
	// MetricsAddr serves /metrics when set, e.g. ":9102".
	MetricsAddr string `env:"METRICS_ADDR"`
}

type Chain struct {
	RPCURL      string `env:"RPC_URL" validate:"required,url"`
	CoreAddress string `env:"CORE_ADDRESS" validate:"required,eth_addr"`
	// PrivateKey of the channel owner, hex.
	PrivateKey        string        `env:"PRIVATE_KEY" validate:"required"`
	ChainID           int64         `env:"ID" validate:"gte=0"`
	RegistryFromBlock uint64        `env:"REGISTRY_FROM_BLOCK"`
	PollInterval      time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
}

type Storage struct {
	Backend    string `env:"BACKEND" envDefault:"ipfs" validate:"oneof=memory ipfs s3"`
	IPFSAPIURL string `env:"IPFS_API_URL" envDefault:"http://127.0.0.1:5001" validate:"required_if=Backend ipfs"`
	IPFSPin    bool   `env:"IPFS_PIN" envDefault:"true"`
	CIDVersion int    `env:"IPFS_CID_VERSION" validate:"oneof=0 1"`
	S3Bucket   string `env:"S3_BUCKET" validate:"required_if=Backend s3"`
	S3Region   string `env:"S3_REGION"`
	S3Endpoint string `env:"S3_ENDPOINT"`
	S3Prefix   string `env:"S3_PREFIX" envDefault:"notifications/"`
}

type Broker struct {
	// URL of RabbitMQ; empty disables outcome events.
	URL            string        `env:"URL"`
	Exchange       string        `env:"EXCHANGE" envDefault:"notification.internal"`
	EventsExchange string        `env:"EVENTS_EXCHANGE" envDefault:"notification.events"`
	Queue          string        `env:"QUEUE" envDefault:"notifyd.dispatch"`
	Workers        int           `env:"WORKERS" envDefault:"4" validate:"gte=1"`
	Prefetch       int           `env:"PREFETCH" envDefault:"4" validate:"gte=0"`
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"5" validate:"gte=1"`
	RetryDelay     time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
}

type Dispatch struct {
	Confirmations   uint64        `env:"CONFIRMATIONS" envDefault:"1" validate:"gte=1"`
	Timeout         time.Duration `env:"TIMEOUT"`
	SecretLength    int           `env:"SECRET_LENGTH" envDefault:"24" validate:"gte=14"`
	StrictAddresses bool          `env:"STRICT_ADDRESSES" envDefault:"true"`
	KeyCacheTTL     time.Duration `env:"KEY_CACHE_TTL" envDefault:"10m"`
	Producer        string        `env:"PRODUCER" envDefault:"notifyd"`
}

type Log struct {
	Level  string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStorage reads only the NOTIFY_STORAGE_* variables, for tools that read
// payloads without touching the chain.
func LoadStorage() (Storage, error) {
	var st Storage
	if err := env.ParseWithOptions(&st, env.Options{Prefix: Prefix + "STORAGE_"}); err != nil {
		return Storage{}, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(st); err != nil {
		return Storage{}, fmt.Errorf("invalid storage config: %w", err)
	}
	return st, nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
