// Package prometheus instruments pagesnap.Processor with Prometheus metrics.
package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/pagesnap"
	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time interface verification.
var _ pagesnap.Processor = (*Processor)(nil)

// CodeOK is the code label of successful requests. Unrecognized strategies
// share the "unknown" strategy label to keep label cardinality bounded.
const CodeOK = "ok"

// Processor counts processed requests by strategy and outcome and observes
// their latency.
type Processor struct {
	next     pagesnap.Processor
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewProcessor wraps next and registers its collectors with reg.
func NewProcessor(next pagesnap.Processor, reg prometheus.Registerer) (*Processor, error) {
	p := &Processor{
		next: next,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesnap",
			Name:      "requests_total",
			Help:      "Processed extraction requests by strategy and result code.",
		}, []string{"strategy", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pagesnap",
			Name:      "request_duration_seconds",
			Help:      "Extraction request latency by strategy.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30, 60},
		}, []string{"strategy"}),
	}
	for _, c := range []prometheus.Collector{p.requests, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Process delegates to the wrapped processor and records the outcome.
func (p *Processor) Process(ctx context.Context, req *pagesnap.Request) (result *pagesnap.Result) {
	defer func(begin time.Time) {
		strategy := "unknown"
		if req != nil && (req.Strategy == pagesnap.StrategyText || req.Strategy == pagesnap.StrategyRender) {
			strategy = string(req.Strategy)
		}
		code := CodeOK
		if !result.OK() {
			code = result.Err.Code
		}
		p.requests.WithLabelValues(strategy, code).Inc()
		p.duration.WithLabelValues(strategy).Observe(time.Since(begin).Seconds())
	}(time.Now())
	return p.next.Process(ctx, req)
}
