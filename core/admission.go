package core

// Admission Control (§4.5): a process-wide concurrency cap on in-flight
// upstream requests, plus a per-endpoint token bucket so bursts do not
// stampede upstream even when comfortably under the concurrency cap.
//
// The token bucket is golang.org/x/time/rate, the same library the teacher
// uses for its own HTTP rate limiter (core/virtual_machine.go: "200 req/s,
// burst 100"). The concurrency cap is a buffered-channel counting
// semaphore, the idiomatic Go shape for bounding parallelism.

import (
	"context"

	"golang.org/x/time/rate"
)

// Endpoint names token buckets are keyed by (§4.5, §6).
const (
	EndpointUUID     = "uuid"
	EndpointUUIDs    = "uuids"
	EndpointProfile  = "profile"
	EndpointTextures = "textures"
)

// AdmissionConfig configures the concurrency cap and per-endpoint budgets.
type AdmissionConfig struct {
	MaxConcurrent int
	// PerEndpointRPS/Burst default to comfortably under Mojang's published
	// "600 per 10 min" (~1/s) budget; per-endpoint so a burst of profile
	// lookups cannot starve uuid lookups or vice versa.
	PerEndpointRPS   map[string]float64
	PerEndpointBurst map[string]int
}

// DefaultAdmissionConfig returns a conservative default comfortably under
// Mojang's published per-endpoint budgets.
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		MaxConcurrent: 32,
		PerEndpointRPS: map[string]float64{
			EndpointUUID:     0.5,
			EndpointUUIDs:    0.5,
			EndpointProfile:  0.8,
			EndpointTextures: 0.9,
		},
		PerEndpointBurst: map[string]int{
			EndpointUUID:     10,
			EndpointUUIDs:    10,
			EndpointProfile:  15,
			EndpointTextures: 20,
		},
	}
}

// Admission gates every upstream call. It is a process-wide singleton
// constructed explicitly in a ResolverContext, never a package-level
// mutable global (§9).
type Admission struct {
	sem      chan struct{}
	limiters map[string]*rate.Limiter
	metrics  *Metrics
}

// NewAdmission builds an Admission from cfg.
func NewAdmission(cfg AdmissionConfig, m *Metrics) *Admission {
	a := &Admission{
		sem:      make(chan struct{}, cfg.MaxConcurrent),
		limiters: make(map[string]*rate.Limiter, len(cfg.PerEndpointRPS)),
		metrics:  m,
	}
	for ep, rps := range cfg.PerEndpointRPS {
		burst := cfg.PerEndpointBurst[ep]
		if burst <= 0 {
			burst = 1
		}
		a.limiters[ep] = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return a
}

// Enter blocks until a concurrency slot is free and the endpoint's local
// token bucket admits the call, or ctx is canceled. A local-bucket
// rejection is retried internally (waited out via the limiter, since the
// limit is local, not an upstream 429) — a true upstream 429 is never
// routed through here, it is surfaced by the Mojang Client as
// KindRateLimited directly (§4.5). A ctx cancellation or deadline while
// waiting is classified KindUnavailable so resolveOne's stale-fallback
// gate (§5: exceeding the outer deadline with a stale entry known returns
// the stale entry) can match it via AsError.
func (a *Admission) Enter(ctx context.Context, endpoint string) (func(), error) {
	select {
	case a.sem <- struct{}{}:
	case <-ctx.Done():
		a.metrics.AdmissionRejected.WithLabelValues(endpoint, "concurrency").Inc()
		return nil, NewError(KindUnavailable, "admission: concurrency wait canceled", ctx.Err())
	}
	a.metrics.AdmissionInFlight.Inc()

	if lim, ok := a.limiters[endpoint]; ok {
		if err := lim.Wait(ctx); err != nil {
			<-a.sem
			a.metrics.AdmissionInFlight.Dec()
			a.metrics.AdmissionRejected.WithLabelValues(endpoint, "rate_limit").Inc()
			return nil, NewError(KindUnavailable, "admission: rate limit wait canceled", err)
		}
	}

	release := func() {
		<-a.sem
		a.metrics.AdmissionInFlight.Dec()
	}
	return release, nil
}
