package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCheckoutMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckout(reg)
	m.ObserveCommit(OutcomeCommitted, 120*time.Millisecond)
	m.ObserveCommit(OutcomeCommitted, 80*time.Millisecond)
	m.ObserveCommit("", time.Millisecond)
	m.IncPromoDropped("expired")
	m.IncRedemption()
	m.AddCampaignEnqueued(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := counterValue(mfs, "petshop_checkout_commits_total", "outcome", OutcomeCommitted); err != nil || got != 2 {
		t.Fatalf("committed want 2 got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "petshop_checkout_commits_total", "outcome", "unknown"); err != nil || got != 1 {
		t.Fatalf("unknown outcome want 1 got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "petshop_promo_dropped_total", "reason", "expired"); err != nil || got != 1 {
		t.Fatalf("dropped want 1 got %f err=%v", got, err)
	}
	if got, err := counterValue(mfs, "petshop_campaign_emails_enqueued_total", "", ""); err != nil || got != 3 {
		t.Fatalf("campaign enqueued want 3 got %f err=%v", got, err)
	}
}

func TestNilCheckoutMetricsAreNoop(t *testing.T) {
	var m *Checkout
	m.ObserveCommit(OutcomeFailed, time.Second)
	m.IncRetry()
	m.IncNotificationFailure("order:confirmation")

	empty := NewCheckout(nil)
	empty.IncRedemption()
	empty.AddCampaignEnqueued(10)
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if label == "" || hasLabel(metric.GetLabel(), label, value) {
				return metric.GetCounter().GetValue(), nil
			}
		}
		return 0, fmt.Errorf("metric %q has no series %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}

func hasLabel(pairs []*dto.LabelPair, name, value string) bool {
	for _, pair := range pairs {
		if pair.GetName() == name && pair.GetValue() == value {
			return true
		}
	}
	return false
}
