// Package config loads the YAML configuration that selects and sizes a
// wide string runtime.
//
//	backend: guest          # guest | native
//	memory:
//	  kind: wazero          # wazero | slice
//	  initial_pages: 1
//	  max_pages: 256
//	  stack_size: 16384
//	log:
//	  level: info
//	  development: false
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/guest"
	"github.com/wippyai/wstring/memory"
)

// Backend names a runtime implementation.
type Backend string

const (
	BackendGuest  Backend = "guest"  // libc++-style strings in linear memory
	BackendNative Backend = "native" // host std::wstring through cgo
)

// MemoryKind names a linear memory implementation for the guest backend.
type MemoryKind string

const (
	MemoryWazero MemoryKind = "wazero"
	MemorySlice  MemoryKind = "slice"
)

// Config is the root configuration.
type Config struct {
	Backend Backend `yaml:"backend"`
	Memory  Memory  `yaml:"memory"`
	Log     Log     `yaml:"log"`
}

// Memory sizes the guest backend's linear memory.
type Memory struct {
	Kind         MemoryKind `yaml:"kind"`
	InitialPages uint32     `yaml:"initial_pages"`
	MaxPages     uint32     `yaml:"max_pages"` // 0 means the 4 GiB limit
	StackSize    uint32     `yaml:"stack_size"`
}

// Log configures the process logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Backend: BackendGuest,
		Memory: Memory{
			Kind:         MemoryWazero,
			InitialPages: 1,
			MaxPages:     256,
			StackSize:    guest.DefaultStackSize,
		},
		Log: Log{Level: "info"},
	}
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return nil, errors.ParseFailed("config", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load(fmt.Sprintf("read %s", path), err)
	}
	return Parse(data)
}

// LoadOptional is Load, except that an empty path or a missing file yields
// Default.
func LoadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func invalid(format string, args ...any) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Op("validate").
		Detail(format, args...).
		Build()
}

// Validate checks field values and their combinations.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGuest:
	case BackendNative:
		return c.validateLog()
	default:
		return invalid("unknown backend %q", c.Backend)
	}

	switch c.Memory.Kind {
	case MemoryWazero, MemorySlice:
	default:
		return invalid("unknown memory kind %q", c.Memory.Kind)
	}
	if c.Memory.MaxPages > memory.MaxPages {
		return invalid("max_pages %d exceeds %d", c.Memory.MaxPages, memory.MaxPages)
	}
	if c.Memory.MaxPages != 0 && c.Memory.InitialPages > c.Memory.MaxPages {
		return invalid("initial_pages %d exceeds max_pages %d", c.Memory.InitialPages, c.Memory.MaxPages)
	}
	if c.Memory.StackSize < guest.ObjectSize {
		return invalid("stack_size %d is smaller than one string object (%d)", c.Memory.StackSize, guest.ObjectSize)
	}
	return c.validateLog()
}

func (c *Config) validateLog() error {
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return invalid("log level %q: %v", c.Log.Level, err)
	}
	return nil
}

// Logger builds the process logger.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "log level")
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
