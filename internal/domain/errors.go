package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an address cannot be normalized
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidTokenID is returned when a token id is empty or not a decimal number
	ErrInvalidTokenID = errors.New("invalid token id")

	// ErrSourceUnavailable is returned when a data source answered with a non-success status
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRateLimited is returned when a data source signals rate limiting
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse is returned when a response cannot be decoded into the expected shape
	ErrMalformedResponse = errors.New("malformed response")
)
