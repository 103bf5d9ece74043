package client

import (
	"errors"
	"maps"
	"sync"
	"time"

	"flagfeed/pkg/constraints"
)

var (
	ErrEmptyHost       = errors.New("flagfeed: host must not be empty")
	ErrInvalidInterval = errors.New("flagfeed: update interval must be positive")
)

// Config holds the connection settings for one client: the service host,
// request headers and the poll interval. It is safe for concurrent use;
// the poller reads it while callers may still mutate headers or interval.
type Config struct {
	mu             sync.Mutex
	host           string
	headers        map[string]string
	updateInterval time.Duration
}

// Options is a detached copy of the full option set.
type Options struct {
	Host           string
	Headers        map[string]string
	UpdateInterval time.Duration
}

func NewConfig(host string) (*Config, error) {
	if host == "" {
		return nil, ErrEmptyHost
	}
	return &Config{
		host:           host,
		headers:        make(map[string]string),
		updateInterval: constraints.DefaultUpdateInterval,
	}, nil
}

func (c *Config) Host() string {
	return c.host
}

func (c *Config) UpdateInterval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateInterval
}

// SetUpdateInterval replaces the poll interval for subsequent scheduling.
// A running poller picks the change up at its next tick, not immediately.
// The previous interval stays in effect when d is not positive.
func (c *Config) SetUpdateInterval(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidInterval
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateInterval = d
	return nil
}

// Headers returns a copy; mutating it does not affect the config.
func (c *Config) Headers() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.headers)
}

func (c *Config) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// MergeHeaders merges m into the configured headers, last write wins.
func (c *Config) MergeHeaders(m map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	maps.Copy(c.headers, m)
}

func (c *Config) ClearHeaders() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = make(map[string]string)
}

func (c *Config) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Options{
		Host:           c.host,
		Headers:        maps.Clone(c.headers),
		UpdateInterval: c.updateInterval,
	}
}
