// Package registry owns the per-channel upstream sessions. Sessions are
// created lazily on first use and initialized exactly once per channel under
// a single-flight guard; concurrent callers for the same channel share one
// login attempt and its outcome, while other channels proceed independently.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/session"
)

// ClientFactory builds the upstream client for one channel, resolving that
// channel's credentials from configuration. It must return
// errors.ErrMissingCredentials (wrapped) when the channel is not configured.
type ClientFactory func(ch domain.Channel) (domain.UpstreamClient, error)

// Registry is the single concurrency-safe entry point for channel sessions.
// The mutex only covers find-or-create in the session map; initialization
// runs outside it, deduplicated per channel by the singleflight group.
type Registry struct {
	mu       sync.Mutex
	sessions map[domain.Channel]*entry

	group   singleflight.Group
	factory ClientFactory
	backoff time.Duration
	logger  *slog.Logger
}

type entry struct {
	session *session.Session
	ready   atomic.Bool

	// failMu guards the failure record used for the init backoff window.
	failMu   sync.Mutex
	failedAt time.Time
	failErr  error
}

func New(factory ClientFactory, initBackoff time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[domain.Channel]*entry),
		factory:  factory,
		backoff:  initBackoff,
		logger:   logger,
	}
}

// Session returns the ready session for ch, creating and initializing it if
// needed. Exactly one login attempt is in flight per channel at any time;
// every concurrent caller observes that attempt's outcome. After a failed
// attempt the failure is replayed to callers until the backoff window
// elapses, then the next caller re-attempts the login.
func (r *Registry) Session(ctx context.Context, ch domain.Channel) (*session.Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[ch]
	if !ok {
		client, err := r.factory(ch)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		e = &entry{session: session.New(ch, client, r.logger)}
		r.sessions[ch] = e
	}
	r.mu.Unlock()

	if e.ready.Load() {
		return e.session, nil
	}

	_, err, _ := r.group.Do(ch.String(), func() (any, error) {
		return nil, r.initialize(ctx, ch, e)
	})
	if err != nil {
		return nil, err
	}
	return e.session, nil
}

func (r *Registry) initialize(ctx context.Context, ch domain.Channel, e *entry) error {
	// A waiter that entered Do after the winning call finished sees the
	// session already ready.
	if e.ready.Load() {
		return nil
	}

	e.failMu.Lock()
	if !e.failedAt.IsZero() && time.Since(e.failedAt) < r.backoff {
		err := e.failErr
		e.failMu.Unlock()
		return err
	}
	e.failMu.Unlock()

	// The session outlives the request that happened to trigger its
	// creation, so the login runs detached from that caller's deadline. A
	// cancelled caller must not leave a failure record behind that the
	// backoff window would replay to healthy callers.
	initCtx := context.WithoutCancel(ctx)
	if err := e.session.Initialize(initCtx); err != nil {
		initErr := &apperrors.InitError{Channel: ch.String(), Err: err}
		e.failMu.Lock()
		e.failedAt = time.Now()
		e.failErr = initErr
		e.failMu.Unlock()
		r.logger.Error("channel session initialization failed",
			"channel", ch.String(), "error", err, "retry_after", r.backoff)
		return initErr
	}

	e.failMu.Lock()
	e.failedAt = time.Time{}
	e.failErr = nil
	e.failMu.Unlock()
	e.ready.Store(true)
	return nil
}
