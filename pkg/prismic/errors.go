package prismic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is returned when the repository rejects the access token.
	ErrInvalidToken = errors.New("the provided access token is either invalid or expired")
	// ErrAuthorizationNeeded is returned when a private repository is queried
	// without an access token.
	ErrAuthorizationNeeded = errors.New("an access token is needed to access this repository")
	// ErrInvalidURL is returned for endpoints that cannot be fetched at all.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrRefMissing is returned when a form is submitted without a ref.
	ErrRefMissing = errors.New("a ref is needed to submit a search form")
	// ErrUnknownForm is returned by API.Form for undeclared forms.
	ErrUnknownForm = errors.New("unknown form")
	// ErrNoMasterRef is returned when a query needs the master ref and the
	// repository did not declare one.
	ErrNoMasterRef = errors.New("no master ref found")
)

// HTTPError is a non-success response other than 401.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("got an HTTP error %d (%s)", e.Code, e.Message)
}
