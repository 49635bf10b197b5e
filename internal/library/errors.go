package library

import "errors"

// Sentinel errors returned by the organizational model. Callers match with
// errors.Is; the HTTP layer translates them into status codes.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("already exists")
	ErrProtected  = errors.New("deletion blocked")
	ErrValidation = errors.New("invalid input")
)
