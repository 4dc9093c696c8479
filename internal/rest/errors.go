package rest

import "fmt"

// UnreachableError indicates the service could not be reached at all.
type UnreachableError struct {
	Host string
	Err  error
}

func (e *UnreachableError) Error() string {
	if e == nil || e.Host == "" {
		return fmt.Sprintf("adam service unreachable: %v", e.unwrapped())
	}
	return fmt.Sprintf("adam service unreachable at %s: %v", e.Host, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.unwrapped() }

func (e *UnreachableError) unwrapped() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BodyTooLargeError indicates a response body exceeded the configured limit.
// Nothing of the body is returned.
type BodyTooLargeError struct {
	Method string
	Path   string
	Limit  int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("%s %s: response body exceeds %d bytes", e.Method, e.Path, e.Limit)
}
