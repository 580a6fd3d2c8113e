package extraction

import (
	"errors"
	"fmt"
)

// AuthError indicates the vendor refused the request (HTTP 401/403).
type AuthError struct {
	URL        string
	StatusCode int
}

func (e AuthError) Error() string {
	return fmt.Sprintf("auth: vendor rejected %s with status %d", e.URL, e.StatusCode)
}

// FormatError indicates an unexpected status or a body that is not JSON.
type FormatError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e FormatError) Error() string {
	if e.Err != nil {
		return fmt.Errorf("format: %s (status %d): %w", e.URL, e.StatusCode, e.Err).Error()
	}
	return fmt.Sprintf("format: %s returned status %d", e.URL, e.StatusCode)
}

func (e FormatError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a document that lacks a required key or holds a value of the wrong type.
type ValidationError struct {
	Key    string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Key, e.Reason)
}

// ConnectionError indicates the request never produced a response.
type ConnectionError struct {
	URL string
	Err error
}

func (e ConnectionError) Error() string {
	return fmt.Errorf("connection: %s: %w", e.URL, e.Err).Error()
}

func (e ConnectionError) Unwrap() error {
	return e.Err
}

// MalformedURLError indicates a URL that is not an absolute http(s) address.
type MalformedURLError struct {
	URL string
	Err error
}

func (e MalformedURLError) Error() string {
	return fmt.Errorf("malformed url %q: %w", e.URL, e.Err).Error()
}

func (e MalformedURLError) Unwrap() error {
	return e.Err
}

const (
	KindAuth         = "auth"
	KindFormat       = "format"
	KindValidation   = "validation"
	KindConnection   = "connection"
	KindMalformedURL = "malformed_url"
	KindOther        = "other"
)

// Kind returns a stable label for err, suitable for logs and metric labels.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var auth AuthError
	if errors.As(err, &auth) {
		return KindAuth
	}
	var format FormatError
	if errors.As(err, &format) {
		return KindFormat
	}
	var validation ValidationError
	if errors.As(err, &validation) {
		return KindValidation
	}
	var conn ConnectionError
	if errors.As(err, &conn) {
		return KindConnection
	}
	var malformed MalformedURLError
	if errors.As(err, &malformed) {
		return KindMalformedURL
	}
	return KindOther
}
