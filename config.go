package actiongate

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. The
// zero value is useful; all nested fields inherit their package defaults.
type Config struct {
	Worker   WorkerConfig   `json:"worker" yaml:"worker"`
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`
	Sweeper  SweeperConfig  `json:"sweeper" yaml:"sweeper"`
}

// WorkerConfig configures the dispatch worker pool.
type WorkerConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

// DispatchConfig configures the dispatch queue retry policy.
type DispatchConfig struct {
	MaxRetries   int `json:"maxRetries" yaml:"maxRetries"`
	RetryDelayMs int `json:"retryDelayMs" yaml:"retryDelayMs"`
}

// SweeperConfig configures the expiration sweep cadence.
type SweeperConfig struct {
	IntervalSeconds int `json:"intervalSeconds" yaml:"intervalSeconds"`
}

// DefaultConfig returns a Config matching the constructors' defaults: five
// workers, three dispatch attempts with a two-second base backoff, and a
// one-minute sweep.
func DefaultConfig() *Config {
	return &Config{
		Worker:   WorkerConfig{Workers: 5},
		Dispatch: DispatchConfig{MaxRetries: 3, RetryDelayMs: 2000},
		Sweeper:  SweeperConfig{IntervalSeconds: 60},
	}
}

// RetryDelay returns the configured base backoff.
func (c *DispatchConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Interval returns the configured sweep period.
func (c *SweeperConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Worker.Workers <= 0 {
		return fmt.Errorf("worker.workers must be > 0")
	}
	if c.Dispatch.MaxRetries < 0 {
		return fmt.Errorf("dispatch.maxRetries must be >= 0")
	}
	if c.Sweeper.IntervalSeconds <= 0 {
		return fmt.Errorf("sweeper.intervalSeconds must be > 0")
	}
	return nil
}

// LoadConfig reads a YAML config from the given URL (file path, s3://,
// gs:// etc. via afs). Missing fields fall back to defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
