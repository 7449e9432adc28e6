package policy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgate/playgate/internal/domain"
	"github.com/playgate/playgate/internal/policy"
)

func TestMandatoryChannelAlwaysEligible(t *testing.T) {
	table := policy.New(nil)

	assert.True(t, table.IsEligible(domain.ChannelStable, "com.example.app"))
	assert.True(t, table.IsEligible(domain.ChannelStable, ""))
	assert.True(t, table.IsEligible(domain.ChannelStable, "never.seen.before"))
}

func TestOptionalChannelEligibility(t *testing.T) {
	table := policy.New(map[domain.Channel][]string{
		domain.ChannelBeta:  {"com.discord"},
		domain.ChannelAlpha: {"com.discord", "com.example.canary"},
	})

	assert.True(t, table.IsEligible(domain.ChannelBeta, "com.discord"))
	assert.True(t, table.IsEligible(domain.ChannelAlpha, "com.discord"))
	assert.True(t, table.IsEligible(domain.ChannelAlpha, "com.example.canary"))

	assert.False(t, table.IsEligible(domain.ChannelBeta, "com.example.canary"))
	assert.False(t, table.IsEligible(domain.ChannelBeta, "com.unknown"))
	assert.False(t, table.IsEligible(domain.ChannelAlpha, "com.unknown"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eligibility.yaml")
	content := `
channels:
  beta:
    - com.discord
  alpha:
    - com.discord
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := policy.Load(path)
	require.NoError(t, err)

	assert.True(t, table.IsEligible(domain.ChannelBeta, "com.discord"))
	assert.True(t, table.IsEligible(domain.ChannelAlpha, "com.discord"))
	assert.False(t, table.IsEligible(domain.ChannelBeta, "com.example.app"))
	assert.True(t, table.IsEligible(domain.ChannelStable, "com.example.app"))
}

func TestLoadRejectsUnknownChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eligibility.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels:\n  nightly: [com.discord]\n"), 0o600))

	_, err := policy.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownChannel)
}

func TestLoadRejectsMandatoryChannelEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eligibility.yaml")
	require.NoError(t, os.WriteFile(path, []byte("channels:\n  stable: [com.discord]\n"), 0o600))

	_, err := policy.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := policy.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
