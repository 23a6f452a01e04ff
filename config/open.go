package config

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/guest"
	"github.com/wippyai/wstring/memory"
	"github.com/wippyai/wstring/native"
)

// Env is an opened runtime with the resources behind it.
type Env struct {
	Runtime wstring.Runtime
	Backend Backend
	Guest   *guest.Runtime  // set for the guest backend
	Native  *native.Runtime // set for the native backend
	Memory  memory.Linear   // nil for the native backend

	closers []func(context.Context) error
}

// Open creates the runtime the configuration selects.
func (c *Config) Open(ctx context.Context, log *zap.Logger) (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	if c.Backend == BackendNative {
		rt, err := native.New(native.WithLogger(log.Named("native")))
		if err != nil {
			return nil, err
		}
		return &Env{Runtime: rt, Backend: BackendNative, Native: rt}, nil
	}

	env := &Env{Backend: BackendGuest}
	switch c.Memory.Kind {
	case MemoryWazero:
		m, err := memory.NewWazero(ctx, c.Memory.InitialPages, c.Memory.MaxPages)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindAllocation, err, "instantiate wazero memory")
		}
		env.Memory = m
		env.closers = append(env.closers, m.Close)
	default:
		m, err := memory.NewSliceMemory(c.Memory.InitialPages, c.Memory.MaxPages)
		if err != nil {
			return nil, err
		}
		env.Memory = m
	}

	rt, err := guest.New(env.Memory,
		guest.WithStackSize(c.Memory.StackSize),
		guest.WithLogger(log.Named("guest")))
	if err != nil {
		_ = env.Close(ctx)
		return nil, err
	}
	env.Runtime = rt
	env.Guest = rt

	log.Debug("runtime opened",
		zap.String("backend", string(c.Backend)),
		zap.String("memory", string(c.Memory.Kind)),
		zap.Uint32("stack_size", c.Memory.StackSize))
	return env, nil
}

// Capacity returns the capacity of s if the runtime exposes it.
func (e *Env) Capacity(s wstring.Ptr) (uint, bool) {
	c, ok := e.Runtime.(wstring.Capacitor)
	if !ok {
		return 0, false
	}
	return c.Capacity(s), true
}

// Close releases the memory behind the runtime. Strings must not be used
// afterwards.
func (e *Env) Close(ctx context.Context) error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	e.closers = nil
	return first
}
