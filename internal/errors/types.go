package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAppNotFound         = errors.New("app not found")
	ErrInvalidAppID        = errors.New("invalid application id")
	ErrChannelNotAvailable = errors.New("channel not available for app")
	ErrChannelInit         = errors.New("channel initialization failed")
	ErrMissingCredentials  = errors.New("missing channel credentials")
	ErrAuthentication      = errors.New("upstream authentication failed")
	ErrTermsOfService      = errors.New("terms of service not accepted")
	ErrLoginRequired       = errors.New("login required")
	ErrInvalidResponse     = errors.New("invalid response from upstream")
	ErrUpstream            = errors.New("upstream request failed")
)

// InitError reports a failed session initialization for one channel. It
// satisfies errors.Is(err, ErrChannelInit) and unwraps to the login failure.
type InitError struct {
	Channel string
	Err     error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s channel: %v", e.Channel, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool { return target == ErrChannelInit }

// NotAvailableError reports a client request for an optional channel that is
// not eligible for the given app. It satisfies
// errors.Is(err, ErrChannelNotAvailable).
type NotAvailableError struct {
	Channel string
	AppID   string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("channel %q is not available for app %q", e.Channel, e.AppID)
}

func (e *NotAvailableError) Is(target error) bool { return target == ErrChannelNotAvailable }
