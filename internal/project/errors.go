package project

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned before any request is made when a
	// required identifier is missing.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedResponse wraps failures to decode a successful response.
	ErrMalformedResponse = errors.New("malformed response")
)

// ServerError indicates the server answered with a status code the
// operation does not expect.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("server status code: %d; response: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("server status code: %d", e.StatusCode)
}

func malformed(op, detail string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrMalformedResponse, detail)
}
