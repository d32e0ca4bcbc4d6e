package core

// NewResolverContext wires every Resolver collaborator together. core never
// imports pkg/config or touches viper/the filesystem (§1) — cmd/xenosd loads
// and translates configuration, then calls this constructor with already
// concrete values.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRequestDeadline is the outer deadline applied to a resolver call
// when ResolverContextConfig.RequestDeadline is left zero (§5: "the
// resolver has an outer deadline that bounds the total request including
// cache operations"). It is comfortably above MojangClientConfig's default
// per-attempt timeout so a single retryable stale-fallback path has room to
// run inside it.
const DefaultRequestDeadline = 10 * time.Second

// ResolverContextConfig is the fully-resolved set of inputs
// NewResolverContext needs, already translated out of pkg/config.Config by
// the caller.
type ResolverContextConfig struct {
	Mojang          MojangClientConfig
	Admission       AdmissionConfig
	CacheKinds      map[string]CacheKindConfig
	Remote          RemoteCache
	Log             *logrus.Logger
	Metrics         *Metrics
	RequestDeadline time.Duration
}

// NewResolverContext constructs every cache, single-flight group and shared
// collaborator a ResolverContext needs and returns it ready to serve
// requests (§4.4, §5).
func NewResolverContext(cfg ResolverContextConfig) (*ResolverContext, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}
	if cfg.Remote == nil {
		cfg.Remote = NewNoneRemoteCache()
	}
	if cfg.RequestDeadline <= 0 {
		cfg.RequestDeadline = DefaultRequestDeadline
	}

	kindCfg := func(kind string) (CacheKindConfig, error) {
		c, ok := cfg.CacheKinds[kind]
		if !ok {
			return CacheKindConfig{}, fmt.Errorf("missing cache config for kind %q", kind)
		}
		return c, nil
	}

	uuidCfg, err := kindCfg(KindUUID)
	if err != nil {
		return nil, err
	}
	profSignedCfg, err := kindCfg(KindProfileSigned)
	if err != nil {
		return nil, err
	}
	profUnsignedCfg, err := kindCfg(KindProfileUnsigned)
	if err != nil {
		return nil, err
	}
	skinCfg, err := kindCfg(KindSkin)
	if err != nil {
		return nil, err
	}
	capeCfg, err := kindCfg(KindCape)
	if err != nil {
		return nil, err
	}
	headCfg, err := kindCfg(KindHead)
	if err != nil {
		return nil, err
	}

	uuidCache, err := NewCache[UuidPayload](KindUUID, uuidCfg.Policy, uuidCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	profileSignedCache, err := NewCache[ProfilePayload](KindProfileSigned, profSignedCfg.Policy, profSignedCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	profileUnsignedCache, err := NewCache[ProfilePayload](KindProfileUnsigned, profUnsignedCfg.Policy, profUnsignedCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	skinCache, err := NewCache[[]byte](KindSkin, skinCfg.Policy, skinCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	capeCache, err := NewCache[[]byte](KindCape, capeCfg.Policy, capeCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	headCache, err := NewCache[[]byte](KindHead, headCfg.Policy, headCfg.Capacity, cfg.Remote, cfg.Log, cfg.Metrics)
	if err != nil {
		return nil, err
	}

	return &ResolverContext{
		log:             cfg.Log,
		metrics:         cfg.Metrics,
		admission:       NewAdmission(cfg.Admission, cfg.Metrics),
		mojang:          NewMojangClient(cfg.Mojang, cfg.Log),
		health:          NewHealthMonitor(cfg.Remote, cfg.Metrics, cfg.Log),
		requestDeadline: cfg.RequestDeadline,

		uuidCache:            uuidCache,
		profileSignedCache:   profileSignedCache,
		profileUnsignedCache: profileUnsignedCache,
		skinCache:            skinCache,
		capeCache:            capeCache,
		headCache:            headCache,

		uuidSF:      NewSingleFlightGroup[Envelope[UuidPayload]](),
		profileSF:   NewSingleFlightGroup[Envelope[ProfilePayload]](),
		skinSF:      NewSingleFlightGroup[Envelope[[]byte]](),
		capeSF:      NewSingleFlightGroup[Envelope[[]byte]](),
		headSF:      NewSingleFlightGroup[Envelope[[]byte]](),
		uuidBatchSF: NewSingleFlightGroup[map[string]Envelope[UuidPayload]](),
	}, nil
}

// MetricsHandler returns the Prometheus scrape endpoint for this context.
func (rc *ResolverContext) MetricsHandler() http.Handler {
	return rc.metrics.Handler()
}

// Health returns the HealthMonitor so the caller can start its probe loop
// and the HTTP facade can render /healthz.
func (rc *ResolverContext) Health() *HealthMonitor {
	return rc.health
}

// Close releases the underlying caches and remote cache connection.
func (rc *ResolverContext) Close() error {
	rc.uuidCache.Close()
	rc.profileSignedCache.Close()
	rc.profileUnsignedCache.Close()
	rc.skinCache.Close()
	rc.capeCache.Close()
	rc.headCache.Close()
	return nil
}
