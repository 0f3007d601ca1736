package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMissingCredentials = errors.New("ledger unavailable")
)
