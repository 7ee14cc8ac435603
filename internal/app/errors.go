package app

import "errors"

var (
	// ErrValidation wraps rejected input. Nothing is rendered.
	ErrValidation = errors.New("invalid request")
	// ErrUpstream wraps a failed fetch from the data source.
	ErrUpstream = errors.New("data source unavailable")
	// ErrRender wraps a layout or encoding failure.
	ErrRender = errors.New("report rendering failed")
)
