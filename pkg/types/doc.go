// Package types defines the value bundle a caller hands to the patching
// pipeline, the configuration it runs with, the names of the game tables it
// edits, and the error taxonomy shared by every layer of acepatch.
//
// Errors are sentinel values wrapped by typed errors, so callers can use
// either errors.Is (ErrValidation, ErrNotFound, ErrConversion,
// ErrFieldCoercion) or errors.As (*ValidationError and friends).
package types
