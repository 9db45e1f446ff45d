package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkerMode selects which half of the pipeline a worker process drives.
type WorkerMode string

const (
	ModeDownload WorkerMode = "download"
	ModeASR      WorkerMode = "asr"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Worker   WorkerConfig   `yaml:"worker"`
	Paths    PathsConfig    `yaml:"paths"`
	Storage  StorageConfig  `yaml:"storage"`
	Download DownloadConfig `yaml:"download"`
	ASR      ASRConfig      `yaml:"asr"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type WorkerConfig struct {
	Mode       WorkerMode `yaml:"mode"`
	Interval   int        `yaml:"interval"`   // seconds between processing cycles
	BatchSize  int        `yaml:"batch_size"` // entries fetched per cycle
	MaxRetries int        `yaml:"max_retries"`
}

type PathsConfig struct {
	Spool string `yaml:"spool"` // local scratch for downloads and chunk work
	Inbox string `yaml:"inbox"` // watched upload drop folder
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type DownloadConfig struct {
	AllowedDomains []string `yaml:"allowed_domains"`
	MaxFileBytes   int64    `yaml:"max_file_bytes"` // absolute ingestion ceiling
	CookieFile     string   `yaml:"cookie_file"`    // optional, for sources that demand auth
}

type ASRConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	APIKey          string `yaml:"api_key"`
	MaxRequestBytes int64  `yaml:"max_request_bytes"` // provider per-call ceiling
	ChunkSeconds    int    `yaml:"chunk_seconds"`     // nominal segment duration
}

type IngestConfig struct {
	WatchInbox bool `yaml:"watch_inbox"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates the YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.Worker.Mode {
	case ModeDownload, ModeASR:
	case "":
		return fmt.Errorf("worker.mode is required")
	default:
		return fmt.Errorf("worker.mode must be %q or %q", ModeDownload, ModeASR)
	}
	if c.Storage.Endpoint == "" {
		return fmt.Errorf("storage.endpoint is required")
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}
	if c.Worker.Mode == ModeASR {
		switch c.ASR.Provider {
		case "groq", "gemini":
		case "":
			return fmt.Errorf("asr.provider is required in asr mode")
		default:
			return fmt.Errorf("asr.provider must be %q or %q", "groq", "gemini")
		}
	}

	if c.Worker.Interval <= 0 {
		c.Worker.Interval = 10
	}
	if c.Worker.BatchSize <= 0 {
		c.Worker.BatchSize = 5
	}
	if c.Worker.MaxRetries <= 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Paths.Spool == "" {
		c.Paths.Spool = "data/spool"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if len(c.Download.AllowedDomains) == 0 {
		c.Download.AllowedDomains = []string{"youtube.com", "youtu.be", "vimeo.com", "soundcloud.com"}
	}
	if c.Download.MaxFileBytes <= 0 {
		c.Download.MaxFileBytes = 500 * 1024 * 1024
	}
	if c.ASR.Model == "" {
		if c.ASR.Provider == "gemini" {
			c.ASR.Model = "gemini-2.5-flash"
		} else {
			c.ASR.Model = "whisper-large-v3-turbo"
		}
	}
	if c.ASR.MaxRequestBytes <= 0 {
		c.ASR.MaxRequestBytes = 25 * 1024 * 1024
	}
	if c.ASR.ChunkSeconds <= 0 {
		c.ASR.ChunkSeconds = 300
	}
	if c.ASR.APIKey == "" {
		c.ASR.APIKey = keyFromEnv(c.ASR.Provider)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// keyFromEnv supplies provider credentials when the config file omits them.
func keyFromEnv(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("GROQ_API_KEY")
	}
}
