package domain

import "errors"

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidLimit = errors.New("invalid_limit")
	ErrNotFound     = errors.New("not_found")
)
