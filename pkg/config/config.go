package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the configuration tree shared by the worker and the apiserver.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Server  ServerConfig   `mapstructure:"server"`
	MySQL   MySQLConfig    `mapstructure:"mysql"`
	Redis   RedisConfig    `mapstructure:"redis"`
	Lmstfy  LmstfyConfig   `mapstructure:"lmstfy"`
	Feed    FeedConfig     `mapstructure:"feed"`
	Ati     AtiConfig      `mapstructure:"ati"`
	Sync    SyncConfig     `mapstructure:"sync"`
	Workers []WorkerConfig `mapstructure:"workers"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig holds the apiserver listen settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// MySQLConfig holds the database DSN.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig holds the notification pub/sub connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LmstfyConfig holds the job queue connection.
type LmstfyConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Token     string `mapstructure:"token"`
}

// FeedConfig holds the Transport2 source feed credentials.
type FeedConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// AtiConfig holds the ATI marketplace credentials.
type AtiConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
	BoardID string `mapstructure:"board_id"`
}

// SyncConfig drives the reconcile trigger and the queues the engine uses.
type SyncConfig struct {
	Interval      time.Duration `mapstructure:"interval"`        // reconcile enqueue period
	Queue         string        `mapstructure:"queue"`           // reconcile + publish job queue
	NotifyChannel string        `mapstructure:"notify_channel"`  // redis channel for listing events
	PublishJobTTL time.Duration `mapstructure:"publish_job_ttl"` // TTL for delayed publish jobs
}

// WorkerConfig configures one consume pipeline.
type WorkerConfig struct {
	Name       string           `mapstructure:"name"`
	QueueName  string           `mapstructure:"queue_name"`
	Subscriber SubscriberConfig `mapstructure:"subscriber"`
	Processor  ProcessorConfig  `mapstructure:"processor"`
}

// SubscriberConfig configures message pulling.
type SubscriberConfig struct {
	Threads      int           `mapstructure:"threads"`
	Rate         time.Duration `mapstructure:"rate"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TTR          time.Duration `mapstructure:"ttr"`
	ErrorBackoff time.Duration `mapstructure:"error_backoff"`
}

// ProcessorConfig configures message handling.
type ProcessorConfig struct {
	Threads    int           `mapstructure:"threads"`
	BufferSize int           `mapstructure:"buffer_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads a yaml config file.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 5 * time.Minute
	}
	if cfg.Sync.Queue == "" {
		cfg.Sync.Queue = "order_sync"
	}
	if cfg.Sync.NotifyChannel == "" {
		cfg.Sync.NotifyChannel = "listing_events"
	}
	if cfg.Sync.PublishJobTTL == 0 {
		cfg.Sync.PublishJobTTL = 24 * time.Hour
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}

	return &cfg, nil
}

// Validate rejects configs that cannot possibly run. A missing source or
// marketplace credential is fatal at startup, not a per-order condition.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	if c.Feed.Token == "" {
		return fmt.Errorf("feed.token is required")
	}
	if c.Ati.Token == "" {
		return fmt.Errorf("ati.token is required")
	}
	if c.Lmstfy.Host == "" {
		return fmt.Errorf("lmstfy.host is required")
	}
	return nil
}
