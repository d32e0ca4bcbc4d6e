package core

import (
	"testing"
	"time"
)

func TestEnvelopeFreshness(t *testing.T) {
	policy := TTLPolicy{FreshTTL: time.Hour, StaleHorizon: time.Hour, NegativeTTL: time.Minute}
	now := time.Now()

	fresh := Envelope[int]{Timestamp: now.Add(-30 * time.Minute), Data: 1}
	if got := fresh.Freshness(policy, now); got != Fresh {
		t.Fatalf("expected Fresh, got %v", got)
	}

	stale := Envelope[int]{Timestamp: now.Add(-90 * time.Minute), Data: 1}
	if got := stale.Freshness(policy, now); got != Stale {
		t.Fatalf("expected Stale, got %v", got)
	}

	expired := Envelope[int]{Timestamp: now.Add(-3 * time.Hour), Data: 1}
	if got := expired.Freshness(policy, now); got != Expired {
		t.Fatalf("expected Expired, got %v", got)
	}
}

func TestEnvelopeFreshnessNegativeUsesNegativeTTL(t *testing.T) {
	policy := TTLPolicy{FreshTTL: time.Hour, StaleHorizon: time.Hour, NegativeTTL: time.Minute}
	now := time.Now()

	neg := NegativeEnvelope[int]()
	neg.Timestamp = now.Add(-2 * time.Minute)
	if got := neg.Freshness(policy, now); got != Stale {
		t.Fatalf("expected negative envelope past its 1-minute fresh window to be Stale, got %v", got)
	}
}

func TestPositiveEnvelopeNotNegative(t *testing.T) {
	e := Positive("payload")
	if e.Negative {
		t.Fatal("Positive envelope must not be Negative")
	}
	if e.Data != "payload" {
		t.Fatalf("unexpected data: %q", e.Data)
	}
}
