// Package validation checks request inputs before they reach the
// resolution pipeline.
package validation

import (
	"fmt"
	"regexp"

	apperrors "github.com/playgate/playgate/internal/errors"
)

// Android application IDs are dot-separated Java package segments. Each
// segment starts with a letter and continues with letters, digits or
// underscores; at least two segments are required.
var appIDPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)

const maxAppIDLength = 255

// ValidateAppID rejects identifiers that cannot name a Play Store app,
// so malformed input never produces an upstream round trip.
func ValidateAppID(appID string) error {
	if appID == "" {
		return fmt.Errorf("%w: app id is empty", apperrors.ErrInvalidAppID)
	}
	if len(appID) > maxAppIDLength {
		return fmt.Errorf("%w: app id exceeds %d characters", apperrors.ErrInvalidAppID, maxAppIDLength)
	}
	if !appIDPattern.MatchString(appID) {
		return fmt.Errorf("%w: %q is not a valid application id", apperrors.ErrInvalidAppID, appID)
	}
	return nil
}
