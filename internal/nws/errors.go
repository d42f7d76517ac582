package nws

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse covers JSON that cannot be decoded, a points
	// payload with no forecast URL, and a forecast payload with no periods.
	ErrMalformedResponse = errors.New("malformed response from weather service")
)

// StatusError is returned when the weather service answers with a non-2xx
// status. Coordinates outside US coverage typically produce a 404.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather service returned status %d for %s", e.StatusCode, e.URL)
}
