package domain

import "errors"

var (
	ErrInvalidURL = errors.New("invalid event url")
	ErrAPIRequest = errors.New("api request failed")
	ErrDateParse  = errors.New("unparseable date")
	ErrNoMarkets  = errors.New("no usable markets")
)
