package llm

import "errors"

// ParseError indicates the model's text completion did not contain a JSON
// object that could be located and decoded.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError wraps an error as a ParseError, keeping the raw completion
// text for diagnostics.
func NewParseError(err error, raw string) *ParseError {
	return &ParseError{Err: err, Raw: raw}
}

// IsParseError returns true if the error chain contains a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// NetworkError indicates the underlying call to the generative-text service
// failed before any completion was produced.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps an error as a NetworkError.
func NewNetworkError(err error) *NetworkError {
	return &NetworkError{Err: err}
}

// IsNetworkError returns true if the error chain contains a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
