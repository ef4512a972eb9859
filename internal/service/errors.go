package service

import "errors"

var (
	ErrInvalid        = errors.New("invalid")
	ErrFeedFetch      = errors.New("feed fetch failed")
	ErrAlreadyRunning = errors.New("generation already in progress")
)
