package service

import "errors"

// Client errors. Handlers map these to 4xx responses with errors.Is.
var (
	ErrMissingSource       = errors.New("source is required")
	ErrMissingRegion       = errors.New("region is required")
	ErrUnsupportedSource   = errors.New("unsupported source")
	ErrInvalidContribution = errors.New("invalid contribution")
	ErrPropertyNotFound    = errors.New("property not found")
)
