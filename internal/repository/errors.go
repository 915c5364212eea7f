// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver error strings. For example, ErrForbidden indicates that the
// current user is not authorized to touch a record owned by someone else,
// while ErrNameExists signals that the unique key on users.name rejected
// an insert or update.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEventNotFound is returned when no event row matches the lookup.
var ErrEventNotFound = errors.New("event not found")

// ErrNameExists is returned when an insert or update collides with the
// unique key on users.name. Handlers should translate this into an HTTP
// 409 response.
var ErrNameExists = errors.New("name already exists")

// ErrForbidden is returned when the caller attempts an operation on an
// event they do not own. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")
