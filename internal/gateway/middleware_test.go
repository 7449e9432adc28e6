package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestClientLimiterEvictsIdleEntries(t *testing.T) {
	l := newClientLimiter(rate.Limit(1), 1)

	require.True(t, l.allow("10.0.0.1"))
	require.True(t, l.allow("10.0.0.2"))

	// Backdate one client past the idle TTL and make the next call sweep.
	l.mu.Lock()
	l.clients["10.0.0.1"].lastSeen = time.Now().Add(-clientIdleTTL - time.Minute)
	l.lastSweep = time.Now().Add(-clientSweepInterval)
	l.mu.Unlock()

	l.allow("10.0.0.3")

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
	assert.Contains(t, l.clients, "10.0.0.3")
}

func TestClientLimiterBucketsAreIndependent(t *testing.T) {
	l := newClientLimiter(rate.Limit(0), 1)

	require.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
}
