package model

import "errors"

// Domain errors. Services wrap these with context; the HTTP layer maps them
// to status codes with errors.Is.
var (
	// ErrValidation covers missing required input and empty batches. Maps
	// to 400.
	ErrValidation = errors.New("invalid input")

	// ErrDuplicate means a submitted name already exists in the store
	// under normalized comparison. Maps to 409.
	ErrDuplicate = errors.New("name already registered")

	// ErrNotFound means a record reference could not be resolved to a row.
	// Maps to 404.
	ErrNotFound = errors.New("record not found")

	// ErrStoreRead is a failed read against the store. Fatal (500) on the
	// admin query path; non-fatal during the registration duplicate check.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite is a failed append or patch against the store. Always
	// fatal, maps to 500.
	ErrStoreWrite = errors.New("store write failed")
)
