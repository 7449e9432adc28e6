package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playgate/playgate/internal/domain"
)

type ErrorClass int

const (
	ClassInternal ErrorClass = iota
	ClassClientInput
	ClassNotFound
	ClassUpstream
)

// ClassifiedError pairs the internal error with the HTTP status and the
// message that is safe to hand to the caller.
type ClassifiedError struct {
	Class         ErrorClass
	Status        int
	InternalError error
	ClientMessage string
	OperationName string
}

// ErrorClassifier maps internal errors onto the gateway's HTTP error
// surface. Ineligibility and unknown channel names are client errors,
// authoritative misses are 404, everything upstream-shaped is 502 and
// anything else is a plain 500.
type ErrorClassifier struct {
	logger *slog.Logger
}

func NewErrorClassifier(logger *slog.Logger) *ErrorClassifier {
	return &ErrorClassifier{logger: logger}
}

func (ec *ErrorClassifier) Classify(err error, operation string) *ClassifiedError {
	classified := &ClassifiedError{
		InternalError: err,
		OperationName: operation,
	}

	switch {
	case errors.Is(err, ErrInvalidAppID):
		classified.Class = ClassClientInput
		classified.Status = http.StatusBadRequest
		classified.ClientMessage = err.Error()
	case errors.Is(err, domain.ErrUnknownChannel):
		classified.Class = ClassClientInput
		classified.Status = http.StatusBadRequest
		classified.ClientMessage = err.Error()
	case errors.Is(err, ErrChannelNotAvailable):
		classified.Class = ClassClientInput
		classified.Status = http.StatusBadRequest
		classified.ClientMessage = err.Error()
	case errors.Is(err, ErrAppNotFound):
		classified.Class = ClassNotFound
		classified.Status = http.StatusNotFound
		classified.ClientMessage = err.Error()
	case errors.Is(err, ErrMissingCredentials):
		classified.Class = ClassInternal
		classified.Status = http.StatusInternalServerError
		classified.ClientMessage = "gateway is not configured for this channel"
	case errors.Is(err, ErrChannelInit), errors.Is(err, ErrAuthentication):
		classified.Class = ClassUpstream
		classified.Status = http.StatusBadGateway
		classified.ClientMessage = "upstream authentication failed"
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrInvalidResponse):
		classified.Class = ClassUpstream
		classified.Status = http.StatusBadGateway
		classified.ClientMessage = "upstream request failed"
	default:
		classified.Class = ClassInternal
		classified.Status = http.StatusInternalServerError
		classified.ClientMessage = "an unexpected internal error occurred"
	}

	return classified
}

// LogAndClassify classifies err and records the internal detail, returning
// only the client-facing classification.
func (ec *ErrorClassifier) LogAndClassify(ctx context.Context, err error, operation string) *ClassifiedError {
	classified := ec.Classify(err, operation)

	level := slog.LevelError
	if classified.Class == ClassClientInput || classified.Class == ClassNotFound {
		level = slog.LevelDebug
	}
	ec.logger.Log(ctx, level, "operation failed",
		"operation", classified.OperationName,
		"status", classified.Status,
		"internal_error", classified.InternalError.Error(),
	)

	return classified
}
