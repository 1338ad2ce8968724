package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records order-entry engine outcomes.
type EngineMetrics struct {
	taxQuoteFailures *prometheus.CounterVec
	lookupOutcomes   *prometheus.CounterVec
	submissions      *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	taxQuoteFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tax_quote_failure",
		Help: "Tax quote requests that fell back to a zero quote.",
	}, []string{"tenant"})
	lookupOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "customer_lookup_outcome",
		Help: "Customer lookup outcomes by result.",
	}, []string{"result"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submission",
		Help: "Order submissions by result.",
	}, []string{"result"})
	reg.MustRegister(taxQuoteFailures, lookupOutcomes, submissions)
	return &EngineMetrics{
		taxQuoteFailures: taxQuoteFailures,
		lookupOutcomes:   lookupOutcomes,
		submissions:      submissions,
	}
}

// IncTaxQuoteFailure counts a tax quote fallback for the tenant.
func (m *EngineMetrics) IncTaxQuoteFailure(tenant string) {
	if m == nil || m.taxQuoteFailures == nil {
		return
	}
	m.taxQuoteFailures.WithLabelValues(normalizeLabel(tenant)).Inc()
}

// IncLookupOutcome counts a customer lookup result (found, not_found, failure).
func (m *EngineMetrics) IncLookupOutcome(result string) {
	if m == nil || m.lookupOutcomes == nil {
		return
	}
	m.lookupOutcomes.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncSubmission counts an order submission result (success, failure, rejected).
func (m *EngineMetrics) IncSubmission(result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
