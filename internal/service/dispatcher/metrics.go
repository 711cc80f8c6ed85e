package dispatcher

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/auralink/guardian-alert/internal/collector"
	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
)

//nolint:gochecknoglobals // Prometheus collectors are registered once per process.
var (
	// dispatchOutcomes counts terminal dispatch results by outcome label.
	dispatchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Terminal dispatch outcomes by result.",
		},
		[]string{"outcome"},
	)

	// contextSignals counts signal availability per dispatch, keeping
	// systematically failing collectors visible to operators.
	contextSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guardian",
			Subsystem: "dispatch",
			Name:      "context_signals_total",
			Help:      "Collected context signals by kind and availability.",
		},
		[]string{"signal", "available"},
	)
)

//nolint:gochecknoinits // Metric registration happens once at package load.
func init() {
	_ = prometheus.Register(dispatchOutcomes)
	_ = prometheus.Register(contextSignals)
}

// observeOutcome records the terminal result of one dispatch.
func observeOutcome(result domain.Result) {
	outcome := "success"
	if !result.OK() {
		outcome = result.Reason.String()
	}

	dispatchOutcomes.WithLabelValues(outcome).Inc()
}

// observeSignals records which context signals settled with a value.
func observeSignals(signals collector.Signals) {
	contextSignals.WithLabelValues("location", strconv.FormatBool(signals.Location != nil)).Inc()
	contextSignals.WithLabelValues("battery", strconv.FormatBool(signals.Battery != nil)).Inc()
}
