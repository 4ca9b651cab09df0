package model

import "errors"

// ErrValidation marks malformed or missing-required-field input. Services
// wrap it with the field detail, handlers map it to 400.
var ErrValidation = errors.New("validation failed")
