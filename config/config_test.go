package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wstring"
	wserrors "github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/memory"
)

var invalidConfig = &wserrors.Error{Phase: wserrors.PhaseConfig, Kind: wserrors.KindInvalidInput}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(*testing.T, *Config)
		wantErr *wserrors.Error
	}{
		{
			name: "empty uses defaults",
			yaml: "",
			check: func(t *testing.T, c *Config) {
				if *c != *Default() {
					t.Errorf("got %+v", c)
				}
			},
		},
		{
			name: "full",
			yaml: `
backend: guest
memory:
  kind: slice
  initial_pages: 2
  max_pages: 4
  stack_size: 4096
log:
  level: debug
  development: true
`,
			check: func(t *testing.T, c *Config) {
				want := Config{
					Backend: BackendGuest,
					Memory:  Memory{Kind: MemorySlice, InitialPages: 2, MaxPages: 4, StackSize: 4096},
					Log:     Log{Level: "debug", Development: true},
				}
				if *c != want {
					t.Errorf("got %+v, want %+v", *c, want)
				}
			},
		},
		{
			name: "partial keeps other defaults",
			yaml: "memory:\n  max_pages: 8\n",
			check: func(t *testing.T, c *Config) {
				if c.Memory.MaxPages != 8 || c.Memory.Kind != MemoryWazero || c.Memory.StackSize != Default().Memory.StackSize {
					t.Errorf("got %+v", c.Memory)
				}
			},
		},
		{
			name: "native ignores memory",
			yaml: "backend: native\nmemory:\n  kind: bogus\n",
			check: func(t *testing.T, c *Config) {
				if c.Backend != BackendNative {
					t.Errorf("backend %q", c.Backend)
				}
			},
		},
		{name: "unknown backend", yaml: "backend: jvm\n", wantErr: invalidConfig},
		{name: "unknown memory", yaml: "memory:\n  kind: mmap\n", wantErr: invalidConfig},
		{name: "initial above max", yaml: "memory:\n  initial_pages: 9\n  max_pages: 8\n", wantErr: invalidConfig},
		{name: "max above limit", yaml: "memory:\n  max_pages: 65537\n", wantErr: invalidConfig},
		{name: "tiny stack", yaml: "memory:\n  stack_size: 8\n", wantErr: invalidConfig},
		{name: "bad level", yaml: "log:\n  level: loud\n", wantErr: invalidConfig},
		{
			name:    "unknown key",
			yaml:    "backend: guest\ncolour: blue\n",
			wantErr: &wserrors.Error{Phase: wserrors.PhaseLoad, Kind: wserrors.KindInvalidData},
		},
		{
			name:    "malformed",
			yaml:    "backend: [guest\n",
			wantErr: &wserrors.Error{Phase: wserrors.PhaseLoad, Kind: wserrors.KindInvalidData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %s/%s, got %v", tt.wantErr.Phase, tt.wantErr.Kind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			tt.check(t, c)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wstr.yaml")
	if err := os.WriteFile(path, []byte("memory:\n  kind: slice\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil || c.Memory.Kind != MemorySlice {
		t.Fatalf("Load: %+v, %v", c, err)
	}

	missing := filepath.Join(dir, "missing.yaml")
	if _, err := Load(missing); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
	for _, p := range []string{"", missing} {
		c, err := LoadOptional(p)
		if err != nil || *c != *Default() {
			t.Errorf("LoadOptional(%q) = %+v, %v", p, c, err)
		}
	}
	if c, err := LoadOptional(path); err != nil || c.Memory.Kind != MemorySlice {
		t.Errorf("LoadOptional existing: %+v, %v", c, err)
	}
}

func TestLogger(t *testing.T) {
	c := Default()
	c.Log.Level = "warn"
	log, err := c.Logger()
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zapcore.InfoLevel) || !log.Core().Enabled(zapcore.WarnLevel) {
		t.Error("level not applied")
	}

	c.Log = Log{Level: "debug", Development: true}
	if log, err = c.Logger(); err != nil || !log.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("development logger: %v", err)
	}

	c.Log.Level = "nope"
	if _, err := c.Logger(); err == nil {
		t.Error("bad level accepted")
	}
}

func TestOpen_Guest(t *testing.T) {
	for _, kind := range []MemoryKind{MemoryWazero, MemorySlice} {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			c := Default()
			c.Memory.Kind = kind
			env, err := c.Open(ctx, zap.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			defer env.Close(ctx)

			if env.Guest == nil || env.Native != nil || env.Memory == nil {
				t.Fatalf("env %+v", env)
			}
			if env.Memory.Size() < memory.PageSize {
				t.Fatalf("memory size %d", env.Memory.Size())
			}

			err = wstring.LetString(env.Runtime, "configured", func(p wstring.Pinned) error {
				if err := p.Reserve(32); err != nil {
					return err
				}
				if n, ok := env.Capacity(p.Ref().Ptr()); !ok || n < 42 {
					t.Errorf("capacity %d, %v", n, ok)
				}
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestOpen_Invalid(t *testing.T) {
	c := Default()
	c.Backend = "other"
	if _, err := c.Open(context.Background(), nil); !errors.Is(err, invalidConfig) {
		t.Fatalf("expected config error, got %v", err)
	}

	c = Default()
	c.Memory = Memory{Kind: MemorySlice, InitialPages: 0, MaxPages: 1, StackSize: 2 * memory.PageSize}
	if _, err := c.Open(context.Background(), nil); err == nil {
		t.Fatal("stack larger than max memory accepted")
	}
}

func TestEnv_CloseIdempotent(t *testing.T) {
	ctx := context.Background()
	env, err := Default().Open(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if err := env.Close(ctx); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
