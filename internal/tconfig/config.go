// Package tconfig is the runtime's ambient configuration layer: worker pool
// size, MSAA sample count, and the debug tag set, resolved from environment
// variables with functional-option overrides for embedders — the same
// shape as the DefaultTheme()/options-struct pattern in maya.go.
package tconfig

import (
	"os"
	"runtime"
	"strconv"

	"github.com/tessera-ui/tessera/internal/tlog"
)

// Config holds every knob the frame pipeline reads at startup.
type Config struct {
	// WorkerPoolSize bounds the concurrency of parallel layout measurement.
	WorkerPoolSize int

	// SampleCount is the MSAA sample count the renderer requests; 1 disables
	// multisampling entirely.
	SampleCount uint32

	// DebugTags are the tlog categories enabled at startup.
	DebugTags []string

	// ProfileJSONLPath, if non-empty, makes Apply attach a tlog.JSONLSink
	// that appends every emitted log line to this path as one JSON object
	// per line.
	ProfileJSONLPath string
}

// Option customizes a Config built by Default.
type Option func(*Config)

func WithWorkerPoolSize(n int) Option {
	return func(c *Config) { c.WorkerPoolSize = n }
}

func WithSampleCount(n uint32) Option {
	return func(c *Config) { c.SampleCount = n }
}

func WithDebugTags(tags ...string) Option {
	return func(c *Config) { c.DebugTags = tags }
}

func WithProfileJSONLPath(path string) Option {
	return func(c *Config) { c.ProfileJSONLPath = path }
}

// Default builds a Config from environment variables
// (TESSERA_WORKERS, TESSERA_MSAA, TESSERA_DEBUG, TESSERA_PROFILE_JSONL),
// then applies opts on top.
func Default(opts ...Option) Config {
	cfg := Config{
		WorkerPoolSize: runtime.GOMAXPROCS(0),
		SampleCount:    4,
		DebugTags:      tlog.ParseTags(os.Getenv("TESSERA_DEBUG")),
	}
	if v := os.Getenv("TESSERA_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.WorkerPoolSize = n
		}
	}
	if v := os.Getenv("TESSERA_MSAA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleCount = uint32(n)
		}
	}
	cfg.ProfileJSONLPath = os.Getenv("TESSERA_PROFILE_JSONL")

	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.WorkerPoolSize < 1 {
		cfg.WorkerPoolSize = 1
	}
	return cfg
}

// Apply enables the configured debug tags on the global tlog state and, when
// ProfileJSONLPath is set, attaches a JSONL sink writing to that file.
func (c Config) Apply() {
	for _, tag := range c.DebugTags {
		tlog.EnableCategory(tag)
	}
	if c.ProfileJSONLPath != "" {
		f, err := os.OpenFile(c.ProfileJSONLPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			tlog.Error(tlog.TagFrame, "open profiling sink %q: %v", c.ProfileJSONLPath, err)
			return
		}
		tlog.AddSink(tlog.NewJSONLSink(f))
	}
}
