package domain

import "errors"

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionNotFound = errors.New("session not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSecretNotFound  = errors.New("secret not found")
	ErrInvalidTask     = errors.New("invalid task")
)
