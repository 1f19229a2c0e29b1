package model

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every rejected report. State is never mutated
// when an error matching it is returned.
var ErrValidation = errors.New("validation failed")

// Validation kinds.
var (
	ErrTiedScore     = fmt.Errorf("%w: tied score", ErrValidation)
	ErrInvalidScore  = fmt.Errorf("%w: invalid score", ErrValidation)
	ErrSameTeam      = fmt.Errorf("%w: team cannot play itself", ErrValidation)
	ErrUnknownStatus = fmt.Errorf("%w: unknown recruit status", ErrValidation)
)
