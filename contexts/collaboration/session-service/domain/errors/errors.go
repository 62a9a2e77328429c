package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrRetroNotFound  = errors.New("retro not found")
	ErrConflict       = errors.New("conflict")
)
