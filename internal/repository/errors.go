// Package repository persists accounts and prediction records in MySQL.
// Sentinel errors defined here let handlers distinguish expected negative
// outcomes (a taken username, an out-of-range confidence) from genuine
// storage failures without inspecting driver error strings.
package repository

import "errors"

// ErrUsernameExists is returned when signup collides with an existing
// username. Handlers translate it into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrInvalidConfidence is returned when a prediction is recorded with a
// confidence outside [0, 1]. Handlers translate it into an HTTP 400
// response; it should never occur with a well-behaved classifier.
var ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
