package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name, labelValue string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() == name {
			return labeledCounter(family, labelValue)
		}
	}
	return 0
}

func labeledCounter(family *dto.MetricFamily, labelValue string) float64 {
	for _, metric := range family.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetValue() == labelValue {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestEngineMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewEngineMetrics(reg)

	metrics.IncTaxQuoteFailure("palm-cafe")
	metrics.IncTaxQuoteFailure("palm-cafe")
	metrics.IncLookupOutcome("not_found")
	metrics.IncSubmission("success")

	if got := counterValue(t, reg, "tax_quote_failure", "palm-cafe"); got != 2 {
		t.Fatalf("expected 2 tax quote failures, got %v", got)
	}
	if got := counterValue(t, reg, "customer_lookup_outcome", "not_found"); got != 1 {
		t.Fatalf("expected 1 not_found lookup, got %v", got)
	}
	if got := counterValue(t, reg, "order_submission", "success"); got != 1 {
		t.Fatalf("expected 1 successful submission, got %v", got)
	}
}

func TestEngineMetricsNilSafe(t *testing.T) {
	var metrics *EngineMetrics
	metrics.IncTaxQuoteFailure("x")
	metrics.IncLookupOutcome("y")
	metrics.IncSubmission("z")

	empty := NewEngineMetrics(nil)
	empty.IncTaxQuoteFailure("")
	empty.IncLookupOutcome("")
	empty.IncSubmission("")
}
