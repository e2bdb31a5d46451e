package models

import "errors"

// Error kinds returned by the cart aggregate and the layers around it.
// Callers match them with errors.Is; messages carry the details.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrNotFound        = errors.New("not found")
)
