// Package common defines sentinel errors and small helpers shared by the
// vaultx client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorUnauthorized        = errors.New("unauthorized")
	ErrLocalStoreUnavailable = errors.New("local store unavailable")
	ErrCancelled             = errors.New("cancelled")

	// record-specific errors
	ErrorIncorrectMetadata = errors.New("incorrect metadata")

	// object store errors
	ErrObjectExists = errors.New("object already exists")

	// session errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
