package config

import "fmt"

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Store   StoreConfig   `mapstructure:"store"`
	Blob    BlobConfig    `mapstructure:"blob"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StoreConfig selects and configures the key-value store backend.
// Backend is "file" (default) or "redis".
type StoreConfig struct {
	Backend string           `mapstructure:"backend"`
	File    FileStoreConfig  `mapstructure:"file"`
	Redis   RedisStoreConfig `mapstructure:"redis"`
}

type FileStoreConfig struct {
	// Dir holds one JSON document per store key. It is the shared
	// "storage origin": every process pointed at the same directory
	// observes the same collections.
	Dir string `mapstructure:"dir"`
}

type RedisStoreConfig struct {
	Addr                string `mapstructure:"addr"`
	DB                  int    `mapstructure:"db"`
	Username            string `mapstructure:"username"`
	Password            string `mapstructure:"password"`
	DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
}

// BlobConfig selects the attachment content store.
// Backend is "local" (default) or "s3".
type BlobConfig struct {
	Backend string          `mapstructure:"backend"`
	Local   LocalBlobConfig `mapstructure:"local"`
	S3      S3Config        `mapstructure:"s3"`
}

type LocalBlobConfig struct {
	Dir string `mapstructure:"dir"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PresignTTLSec   int    `mapstructure:"presign_ttl_seconds"`
}

type SeedConfig struct {
	// Disabled skips the first-run reference dataset entirely.
	Disabled bool `mapstructure:"disabled"`
}

type LoggingConfig struct {
	Level  string              `mapstructure:"level"`
	Format string              `mapstructure:"format"`
	Output LoggingOutputConfig `mapstructure:"output"`
}

type LoggingOutputConfig struct {
	Stdout bool                    `mapstructure:"stdout"`
	File   LoggingFileOutputConfig `mapstructure:"file"`
}

type LoggingFileOutputConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Validate checks cross-field requirements and fills defaults that
// viper's zero values cannot express.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		c.App.Name = "dentdesk"
	}
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}

	switch c.Store.Backend {
	case "":
		c.Store.Backend = "file"
	case "file", "redis":
	default:
		return fmt.Errorf("store.backend must be \"file\" or \"redis\", got %q", c.Store.Backend)
	}
	if c.Store.Backend == "file" && c.Store.File.Dir == "" {
		c.Store.File.Dir = "data"
	}
	if c.Store.Backend == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required when store.backend is \"redis\"")
	}

	switch c.Blob.Backend {
	case "":
		c.Blob.Backend = "local"
	case "local", "s3":
	default:
		return fmt.Errorf("blob.backend must be \"local\" or \"s3\", got %q", c.Blob.Backend)
	}
	if c.Blob.Backend == "local" && c.Blob.Local.Dir == "" {
		c.Blob.Local.Dir = "blobs"
	}
	if c.Blob.Backend == "s3" && c.Blob.S3.Bucket == "" {
		return fmt.Errorf("blob.s3.bucket is required when blob.backend is \"s3\"")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
