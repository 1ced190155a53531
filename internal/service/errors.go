package service

import "errors"

var (
	ErrAutomationDisabled  = errors.New("automation is stopped")
	ErrOutsideWindow       = errors.New("outside automation hours")
	ErrNoProductsAvailable = errors.New("no products available")
	ErrNoFittingProducts   = errors.New("no products fit within budget")
	ErrPersistence         = errors.New("order persistence failed")
	ErrSyncFailure         = errors.New("order sync failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	ErrNotFound        = errors.New("not found")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrUnauthorized    = errors.New("invalid credentials")
)
