package domain

import (
	"context"

	"github.com/playgate/playgate/internal/playtypes"
)

// UpstreamClient is the authenticated Play API client for a single set of
// credentials. Implementations own the login handshake and the wire
// encoding; callers treat the handle as opaque.
//
// Details reports a missing app with errors.ErrAppNotFound so that callers
// can tell an authoritative miss from a transport failure.
type UpstreamClient interface {
	// Login establishes the authenticated session. Calling it again on an
	// already-authenticated client is allowed and refreshes the session.
	Login(ctx context.Context) error

	// Details fetches the full details document for an app.
	Details(ctx context.Context, appID string) (*playtypes.DetailsResponse, error)

	// DownloadInfo fetches download metadata for an app. A nil versionCode
	// selects the latest version the account can see.
	DownloadInfo(ctx context.Context, appID string, versionCode *int32) (*playtypes.DownloadInfo, error)
}
