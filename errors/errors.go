package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseInit     Phase = "init"     // placement construction of a foreign string
	PhaseRead     Phase = "read"     // views and accessors
	PhaseMutate   Phase = "mutate"   // clear, reserve, push
	PhaseAlloc    Phase = "alloc"    // foreign heap and stack allocation
	PhaseDestroy  Phase = "destroy"  // foreign destructor and delete
	PhaseDecode   Phase = "decode"   // units to Go text
	PhaseValidate Phase = "validate" // external representation checks
	PhaseConfig   Phase = "config"   // configuration validation
	PhaseLoad     Phase = "load"     // configuration and backend loading
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow         Kind = "overflow"
	KindAllocation       Kind = "allocation"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindNotInitialized   Kind = "not_initialized"
	KindLifecycle        Kind = "lifecycle"
	KindStackOverflow    Kind = "stack_overflow"
	KindInvalidCodepoint Kind = "invalid_codepoint"
	KindInteriorNul      Kind = "interior_nul"
	KindMissingNul       Kind = "missing_nul"
	KindInvalidData      Kind = "invalid_data"
	KindInvalidInput     Kind = "invalid_input"
	KindNilPointer       Kind = "nil_pointer"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the failing operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CapacityOverflow reports that length+additional does not fit in a uint.
func CapacityOverflow(length, additional uint) *Error {
	return &Error{
		Phase:  PhaseMutate,
		Kind:   KindOverflow,
		Op:     "reserve",
		Detail: fmt.Sprintf("capacity overflow: length %d + additional %d", length, additional),
		Value:  additional,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error for a memory access
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access out of bounds: offset=%d, length=%d", offset, length),
		Value:  offset,
	}
}

// NotInitialized reports use of a handle that is not (or no longer) alive
func NotInitialized(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized or already destroyed", what),
	}
}

// Lifecycle reports an illegal state transition of a foreign object
func Lifecycle(phase Phase, op string, addr uint64, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLifecycle,
		Op:     op,
		Detail: fmt.Sprintf("object 0x%x: %s", addr, detail),
		Value:  addr,
	}
}

// StackOverflow reports exhaustion of the foreign stack region
func StackOverflow(size, available uint32) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindStackOverflow,
		Detail: fmt.Sprintf("stack cell of %d bytes exceeds %d available", size, available),
	}
}

// InvalidCodepoint reports a unit that is not a Unicode scalar value
func InvalidCodepoint(phase Phase, index int, unit uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidCodepoint,
		Detail: fmt.Sprintf("unit 0x%x at index %d is not a valid codepoint", unit, index),
		Value:  unit,
	}
}

// InteriorNul reports a NUL unit inside a string that must be NUL-free
func InteriorNul(index int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInteriorNul,
		Detail: fmt.Sprintf("interior nul at index %d", index),
		Value:  index,
	}
}

// MissingNul reports a buffer without a NUL terminator
func MissingNul(length int) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindMissingNul,
		Detail: fmt.Sprintf("no nul terminator in %d units", length),
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("nil %s", what),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
