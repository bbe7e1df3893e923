package eventsink

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink counts published events by type and keeps track of the number
// of swaps served by every pair.
type MetricsSink struct {
	events *prometheus.CounterVec
	swaps  *prometheus.CounterVec
}

// NewMetricsSink registers the sink's collectors with the given registerer,
// the default prometheus one if nil.
func NewMetricsSink(registerer prometheus.Registerer) (*MetricsSink, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gem",
		Name:      "events_total",
		Help:      "Number of published domain events by type.",
	}, []string{"type"})
	swaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gem",
		Name:      "pair_swaps_total",
		Help:      "Number of swaps served by pair.",
	}, []string{"pair"})

	for _, c := range []prometheus.Collector{events, swaps} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return &MetricsSink{events, swaps}, nil
}

func (s *MetricsSink) Publish(_ context.Context, event domain.Event) error {
	s.events.WithLabelValues(event.Type()).Inc()
	if e, ok := event.(domain.Swapped); ok {
		s.swaps.WithLabelValues(e.Pair.String()).Inc()
	}
	return nil
}
