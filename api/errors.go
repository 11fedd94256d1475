// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared across frameexec packages.

package api

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotSupported    = errors.New("operation not supported")
	ErrAlreadyExists   = errors.New("resource already exists")
)
