package domain

import "errors"

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. an empty discovery window, start year after end year).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
