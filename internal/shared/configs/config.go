package configs

import "time"

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Session   SessionConfig   `mapstructure:"session" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Publisher PublisherConfig `mapstructure:"publisher" validate:"required"`
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port              int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadHeaderTimeout int `mapstructure:"read_header_timeout" validate:"required,min=1"` // seconds
	ReadTimeout       int `mapstructure:"read_timeout" validate:"required,min=1"`        // seconds (headers+body)
	WriteTimeout      int `mapstructure:"write_timeout" validate:"required,min=1"`       // seconds (response)
	IdleTimeout       int `mapstructure:"idle_timeout" validate:"required,min=1"`        // seconds (keep-alive)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// PipelineConfig holds the ingestion pipeline tunables.
type PipelineConfig struct {
	// Capacity bounds both the raw and the parsed queue.
	Capacity  int `mapstructure:"capacity" validate:"required,min=1"`
	BatchSize int `mapstructure:"batch_size" validate:"required,min=1"`
	// BatchTimeoutSeconds bounds end-to-end latency for low-traffic periods.
	BatchTimeoutSeconds int `mapstructure:"batch_timeout_seconds" validate:"required,min=1"`
	ConsumerCount       int `mapstructure:"consumer_count" validate:"required,min=1"`
	ParserCount         int `mapstructure:"parser_count" validate:"required,min=1"`
	// ParsePermits further bounds simultaneous in-flight parses; 0 disables
	// the limiter. A value >= parser_count adds no throttling beyond the
	// worker pool itself.
	ParsePermits int `mapstructure:"parse_permits" validate:"min=0"`
	// ThroughputMode selects the blocking fill strategy for the raw queue:
	// submissions wait for space instead of evicting the oldest line.
	ThroughputMode bool `mapstructure:"throughput_mode"`
}

// SessionConfig holds the session reconstruction tunables.
type SessionConfig struct {
	IdleWindowSeconds int   `mapstructure:"idle_window_seconds" validate:"required,min=1"`
	SizeCeilingBytes  int64 `mapstructure:"size_ceiling_bytes" validate:"required,min=1"`
	MinRecordBytes    int64 `mapstructure:"min_record_bytes" validate:"min=0"`
}

// CacheConfig holds the read-side projection TTLs.
type CacheConfig struct {
	ActiveTTLSeconds int `mapstructure:"active_ttl_seconds" validate:"required,min=1"`
	StatsTTLSeconds  int `mapstructure:"stats_ttl_seconds" validate:"required,min=1"`
	RecentLimit      int `mapstructure:"recent_limit" validate:"required,min=1"`
}

// PublisherConfig holds the realtime publisher tunables.
type PublisherConfig struct {
	SubscriberBuffer int `mapstructure:"subscriber_buffer" validate:"required,min=1"`
}

func (c *PipelineConfig) BatchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutSeconds) * time.Second
}

func (c *SessionConfig) IdleWindow() time.Duration {
	return time.Duration(c.IdleWindowSeconds) * time.Second
}

func (c *CacheConfig) ActiveTTL() time.Duration {
	return time.Duration(c.ActiveTTLSeconds) * time.Second
}

func (c *CacheConfig) StatsTTL() time.Duration {
	return time.Duration(c.StatsTTLSeconds) * time.Second
}
