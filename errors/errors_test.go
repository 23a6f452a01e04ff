package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseMutate,
				Kind:   KindOverflow,
				Op:     "reserve",
				Detail: "too big",
			},
			contains: []string{"[mutate]", "overflow", "in reserve", "too big"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRead,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[read]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "memory full",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "memory full", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}

func TestError_Is(t *testing.T) {
	err := CapacityOverflow(10, 20)

	if !err.Is(&Error{Phase: PhaseMutate, Kind: KindOverflow}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseAlloc, Kind: KindOverflow}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseMutate, Kind: KindAllocation}) {
		t.Error("Is should not match different kind")
	}

	var wrapped error = Wrap(PhaseMutate, KindAllocation, err, "push")
	var target *Error
	if !errors.As(wrapped, &target) || target.Kind != KindAllocation {
		t.Errorf("errors.As returned %v", target)
	}
	if !errors.Is(wrapped, &Error{Phase: PhaseMutate, Kind: KindOverflow}) {
		t.Error("errors.Is should match the wrapped overflow")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseInit, KindLifecycle).
		Op("init").
		Value(uint64(16)).
		Cause(cause).
		Detail("cell %d already initialized", 16).
		Build()

	if err.Phase != PhaseInit || err.Kind != KindLifecycle {
		t.Errorf("Phase/Kind = %v/%v", err.Phase, err.Kind)
	}
	if err.Op != "init" {
		t.Errorf("Op = %q, want init", err.Op)
	}
	if err.Value != uint64(16) {
		t.Errorf("Value = %v, want 16", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "cell 16 already initialized" {
		t.Errorf("Detail = %q", err.Detail)
	}

	plain := New(PhaseRead, KindInvalidData).Detail("100%").Build()
	if plain.Detail != "100%" {
		t.Errorf("Detail without args should not be formatted, got %q", plain.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		phase  Phase
		kind   Kind
		detail string
	}{
		{"CapacityOverflow", CapacityOverflow(^uint(0), 1), PhaseMutate, KindOverflow, "capacity overflow"},
		{"AllocationFailed", AllocationFailed(PhaseAlloc, 1024, 8), PhaseAlloc, KindAllocation, "1024"},
		{"OutOfBounds", OutOfBounds(PhaseRead, 70000, 4), PhaseRead, KindOutOfBounds, "offset=70000"},
		{"NotInitialized", NotInitialized(PhaseRead, "wide string"), PhaseRead, KindNotInitialized, "wide string"},
		{"Lifecycle", Lifecycle(PhaseDestroy, "destroy", 0x40, "not alive"), PhaseDestroy, KindLifecycle, "0x40"},
		{"StackOverflow", StackOverflow(32, 16), PhaseAlloc, KindStackOverflow, "32 bytes"},
		{"InvalidCodepoint", InvalidCodepoint(PhaseDecode, 2, 0xD800), PhaseDecode, KindInvalidCodepoint, "0xd800"},
		{"InteriorNul", InteriorNul(3), PhaseValidate, KindInteriorNul, "index 3"},
		{"MissingNul", MissingNul(5), PhaseValidate, KindMissingNul, "5 units"},
		{"NilPointer", NilPointer(PhaseMutate, "pinned string"), PhaseMutate, KindNilPointer, "nil pinned string"},
		{"Unsupported", Unsupported(PhaseLoad, "native backend"), PhaseLoad, KindUnsupported, "native backend"},
		{"InvalidInput", InvalidInput(PhaseConfig, "bad pages"), PhaseConfig, KindInvalidInput, "bad pages"},
		{"ParseFailed", ParseFailed("config", errors.New("x")), PhaseLoad, KindInvalidData, "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Detail, tt.detail) {
				t.Errorf("Detail = %q, should contain %q", tt.err.Detail, tt.detail)
			}
		})
	}
}
