// Package repository defines the data access layer: one small struct
// per table over *sql.DB, with ...Tx method variants for work that
// must happen inside a caller-owned transaction.  Sentinel errors
// defined here let handlers distinguish failure scenarios without
// inspecting driver errors.
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot proceed
// because of dependent state, such as deleting a flight that still
// has confirmed bookings.  Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrFlightNumberExists is returned when creating or updating a
// flight with a flight number already taken by another row.
var ErrFlightNumberExists = errors.New("flight number already exists")

// ErrUserExists is returned when an insert hits the unique email or
// username index.  Callers that need to know which field collided
// should look the user up first.
var ErrUserExists = errors.New("user already exists")
