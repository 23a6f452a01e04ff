// Package errors provides structured error types for the wstring module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the failing operation, a detail message,
// the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMutate, errors.KindOverflow).
//		Op("reserve").
//		Value(additional).
//		Detail("length %d + %d overflows uint", n, additional).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapacityOverflow(length, additional)
//	err := errors.AllocationFailed(errors.PhaseAlloc, 64, 4)
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching with errors.Is compares Phase and Kind only.
package errors
