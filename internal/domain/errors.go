package domain

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
