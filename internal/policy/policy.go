// Package policy holds the channel eligibility table: which apps are served
// on which optional channels. The table is built once at startup and is
// read-only afterwards.
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/playgate/playgate/internal/domain"
)

// Table answers eligibility queries. The mandatory channel is implicitly
// eligible for every app; optional channels only for apps listed in their
// configured set.
type Table struct {
	sets map[domain.Channel]map[string]struct{}
}

// eligibilityFile is the YAML shape: channel name to app identifier list.
type eligibilityFile struct {
	Channels map[string][]string `yaml:"channels"`
}

// Load reads the eligibility table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eligibility file %s: %w", path, err)
	}

	var file eligibilityFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal eligibility file %s: %w", path, err)
	}

	byChannel := make(map[domain.Channel][]string, len(file.Channels))
	for name, apps := range file.Channels {
		ch, err := domain.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("eligibility file %s: %w", path, err)
		}
		if ch.Mandatory() {
			return nil, fmt.Errorf("eligibility file %s: the %s channel is always eligible and must not be listed", path, ch)
		}
		byChannel[ch] = apps
	}

	return New(byChannel), nil
}

// New builds a table from per-channel app lists. Mandatory-channel entries
// are ignored; it is eligible for everything by definition.
func New(byChannel map[domain.Channel][]string) *Table {
	sets := make(map[domain.Channel]map[string]struct{}, len(byChannel))
	for ch, apps := range byChannel {
		if ch.Mandatory() {
			continue
		}
		set := make(map[string]struct{}, len(apps))
		for _, app := range apps {
			set[app] = struct{}{}
		}
		sets[ch] = set
	}
	return &Table{sets: sets}
}

// IsEligible reports whether appID is served on ch. Unknown apps are
// eligible only on the mandatory channel.
func (t *Table) IsEligible(ch domain.Channel, appID string) bool {
	if ch.Mandatory() {
		return true
	}
	_, ok := t.sets[ch][appID]
	return ok
}
