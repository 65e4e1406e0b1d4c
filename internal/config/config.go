// Package config holds the settings of a counting run.
package config

import (
	"fmt"
	"io"
	"math/bits"
	"strconv"

	"github.com/Borislavv/ip-dir-counter/internal/logger"
	"github.com/Borislavv/ip-dir-counter/internal/partition"
)

// Environment variables that override flag defaults.
const (
	EnvWorkers   = "IPDC_WORKERS"
	EnvShards    = "IPDC_SHARDS"
	EnvSchedule  = "IPDC_SCHEDULE"
	EnvBufKB     = "IPDC_BUF_KB"
	EnvRateBPS   = "IPDC_RATE_BPS"
	EnvLogLevel  = "IPDC_LOG_LEVEL"
	EnvLogFormat = "IPDC_LOG_FORMAT"
)

const minShards = 16

type Config struct {
	Dir     string
	Workers int
	// Shards is the address set bucket count; 0 picks one from Workers.
	Shards          int
	Schedule        string
	BufKB           int
	RateBytesPerSec int64
	Progress        bool
	LogLevel        string
	LogFormat       string
}

func Default() Config {
	return Config{
		Schedule:  partition.ScheduleContiguous.String(),
		BufKB:     64,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// ValidationError reports a rejected field.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks c before any worker is started.
func (c Config) Validate() error {
	switch {
	case c.Dir == "":
		return &ValidationError{Field: "dir", Value: `""`, Reason: "must be set"}
	case c.Workers < 1:
		return &ValidationError{Field: "workers", Value: c.Workers, Reason: "must be > 0"}
	case c.Shards < 0:
		return &ValidationError{Field: "shards", Value: c.Shards, Reason: "must be >= 0"}
	case c.BufKB < 0:
		return &ValidationError{Field: "buffer", Value: c.BufKB, Reason: "must be >= 0"}
	case c.RateBytesPerSec < 0:
		return &ValidationError{Field: "rate", Value: c.RateBytesPerSec, Reason: "must be >= 0"}
	}
	if _, err := partition.ParseSchedule(c.Schedule); err != nil {
		return &ValidationError{Field: "schedule", Value: c.Schedule, Reason: err.Error()}
	}
	if _, err := logger.New(io.Discard, c.LogFormat, c.LogLevel); err != nil {
		return &ValidationError{Field: "log", Value: c.LogFormat + "/" + c.LogLevel, Reason: err.Error()}
	}
	return nil
}

// ShardCount resolves Shards: an explicit value wins, otherwise the next
// power of two >= max(Workers, 16).
func (c Config) ShardCount() int {
	if c.Shards > 0 {
		return c.Shards
	}
	n := max(c.Workers, minShards)
	return 1 << bits.Len(uint(n-1))
}

// ApplyEnv overrides fields from lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvWorkers, &c.Workers},
		{EnvShards, &c.Shards},
		{EnvBufKB, &c.BufKB},
	}
	for _, e := range ints {
		if v, ok := lookup(e.key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.key, err)
			}
			*e.dst = n
		}
	}
	if v, ok := lookup(EnvRateBPS); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRateBPS, err)
		}
		c.RateBytesPerSec = n
	}
	if v, ok := lookup(EnvSchedule); ok && v != "" {
		c.Schedule = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}
	return nil
}
