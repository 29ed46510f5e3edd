// Package common defines sentinel errors shared across layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrInvalidInput marks malformed or empty arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authenticated caller without permission.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized marks a failed or missing authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict marks an attempt to create an entity that already exists.
	ErrConflict = errors.New("conflict")

	// ErrDecryptionFailure marks a ciphertext the cipher rejects: wrong key,
	// truncation, or at-rest corruption. It must surface to operators as-is,
	// never be reinterpreted as an authorization or generic failure.
	ErrDecryptionFailure = errors.New("decryption failure")
)
