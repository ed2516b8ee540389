package ports

import (
	apperrors "github.com/uniport/campus-api/internal/errors"
)

var (
	// ErrDirectoryUnavailable is returned when a service credential could not
	// be acquired from the directory's token endpoint. It is fatal to any
	// operation requiring directory auth.
	ErrDirectoryUnavailable = apperrors.Unavailable("identity directory unavailable")

	// ErrDirectoryCreateFailed is returned when a user-creation response
	// could not be turned into a usable record. The remote side effect may
	// already have happened, so the error is surfaced for operator attention
	// instead of being retried.
	ErrDirectoryCreateFailed = apperrors.Internal("directory user creation failed")
)
