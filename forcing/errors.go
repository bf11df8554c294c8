package forcing

import "errors"

var (
	// ErrConfig a station or interpolation key is missing or holds an invalid value
	ErrConfig = errors.New("forcing configuration error")
	// ErrLookup an indicator cell holds an id no configured station carries
	ErrLookup = errors.New("station id not present in registry")
	// ErrIO a station file or input grid could not be opened or read
	ErrIO = errors.New("forcing i/o error")
	// ErrData a station file line is short, malformed or missing
	ErrData = errors.New("malformed meteorological record")
	// ErrState an engine operation was called out of order
	ErrState = errors.New("invalid forcing engine state")
)
