// Package common contains shared sentinel errors used across CardGuard
// layers. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStorageUnavailable marks a store that cannot be opened (locked by
	// another connection, blocked migration, unreachable server). The only
	// recovery path is an explicit, user-confirmed reset.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrUnauthenticated is returned by the remote engine when no session
	// carrying an owner identity is available.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Security errors.
	ErrDecryptionFailed   = errors.New("decryption failed")
	ErrVerificationFailed = errors.New("pin verification failed")
	ErrLocked             = errors.New("app lock is engaged")
	ErrLockNotEnabled     = errors.New("app lock is not enabled")

	ErrInvalidToken = errors.New("invalid token")
)
