package resolve

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeFound      = "found"
	outcomeNotFound   = "not_found"
	outcomeError      = "error"
	outcomeIneligible = "ineligible"
)

// lookupOutcomes counts single-channel lookups by channel and outcome.
// Swallowed optional-channel failures are only visible here and in the logs.
var lookupOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "playgate",
	Subsystem: "resolve",
	Name:      "lookups_total",
	Help:      "Single-channel detail lookups by channel and outcome.",
}, []string{"channel", "outcome"})
