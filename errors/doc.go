// Package errors provides structured error types for the handle registry.
//
// Errors are categorized by Phase (which operation failed) and Kind (the
// failure taxonomy from the registry design: invalid_value, not_found,
// type_mismatch, conflict). The Error type carries the offending handle
// and the tags involved, so the embedding layer can render precise
// diagnostics without string matching.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseVerify, errors.KindTypeMismatch).
//		Handle(h).
//		Tag("TextWidget").
//		Expected("Socket").
//		Detail("tag does not match registered tag").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotRegistered(errors.PhaseVerify, h, tag)
//	err := errors.NilHandle(errors.PhaseRegister)
//
// All errors implement the standard error interface and support
// errors.Is/As; the IsNotFound, IsTypeMismatch, IsConflict and
// IsInvalidValue predicates test the Kind regardless of Phase.
package errors
