// Command xenosd runs the Xenos profile-cache proxy: a gRPC facade, an HTTP
// facade, and a Prometheus metrics endpoint, all backed by one shared
// core.ResolverContext (§5, §6).
package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"xenos/core"
	"xenos/grpcapi"
	"xenos/httpapi"
	"xenos/pkg/config"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		log.SetLevel(lvl)
	}

	resolver, err := buildResolverContext(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("build resolver context")
	}
	defer resolver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go resolver.Health().Run(ctx, 30*time.Second)

	httpSrv := httpapi.NewServer(cfg.Listen.HTTP, resolver, log, cfg.HTTPBearerToken)
	go func() {
		log.WithField("addr", cfg.Listen.HTTP).Info("http facade listening")
		if err := httpSrv.Start(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http facade stopped")
		}
	}()

	metricsSrv := &http.Server{Addr: cfg.Listen.Metrics, Handler: metricsHandler(resolver)}
	go func() {
		log.WithField("addr", cfg.Listen.Metrics).Info("metrics listening")
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics server stopped")
		}
	}()

	grpcSrv := grpc.NewServer()
	grpcapi.RegisterProfileServiceServer(grpcSrv, grpcapi.NewHandler(resolver))
	lis, err := net.Listen("tcp", cfg.Listen.GRPC)
	if err != nil {
		log.WithError(err).Fatal("grpc listen")
	}
	go func() {
		log.WithField("addr", cfg.Listen.GRPC).Info("grpc facade listening")
		if err := grpcSrv.Serve(lis); err != nil {
			log.WithError(err).Error("grpc facade stopped")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	grpcSrv.GracefulStop()
}

func metricsHandler(resolver *core.ResolverContext) http.Handler {
	m := http.NewServeMux()
	m.Handle("/metrics", resolver.MetricsHandler())
	return m
}

// buildResolverContext translates the already-loaded pkg/config.Config into
// core's own, decoupled ResolverContextConfig (§1: core never imports
// pkg/config).
func buildResolverContext(cfg *config.Config, log *logrus.Logger) (*core.ResolverContext, error) {
	metrics := core.NewMetrics()

	remote, err := buildRemoteCache(cfg, log, metrics)
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]core.CacheKindConfig, len(cfg.CacheKinds))
	for name, yk := range cfg.CacheKinds {
		kinds[name] = core.CacheKindConfig{
			Policy: core.TTLPolicy{
				FreshTTL:     yk.FreshTTL,
				StaleHorizon: yk.StaleHorizon,
				NegativeTTL:  yk.NegativeTTL,
			},
			Capacity: yk.Capacity,
		}
	}
	for k, v := range core.DefaultCacheConfig() {
		if _, ok := kinds[k]; !ok {
			kinds[k] = v
		}
	}

	return core.NewResolverContext(core.ResolverContextConfig{
		Mojang: core.MojangClientConfig{
			UUIDBaseURL:      cfg.Upstream.UUIDBaseURL,
			UUIDsBaseURL:     cfg.Upstream.UUIDsBaseURL,
			ProfileBaseURL:   cfg.Upstream.ProfileBaseURL,
			TextureAllowHost: cfg.Upstream.TextureAllowHost,
			RequestTimeout:   cfg.Upstream.RequestTimeout,
		},
		Admission: core.AdmissionConfig{
			MaxConcurrent:    cfg.Admission.MaxConcurrent,
			PerEndpointRPS:   cfg.Admission.PerEndpointRPS,
			PerEndpointBurst: cfg.Admission.PerEndpointBurst,
		},
		CacheKinds: kinds,
		Remote:     remote,
		Log:        log,
		Metrics:    metrics,
	})
}

func buildRemoteCache(cfg *config.Config, log *logrus.Logger, metrics *core.Metrics) (core.RemoteCache, error) {
	switch cfg.RemoteCache.Driver {
	case "", "none":
		return core.NewNoneRemoteCache(), nil
	case "redis-like":
		return core.NewRedisRemoteCache(cfg.RemoteCache.Addr, log), nil
	default:
		log.WithField("driver", cfg.RemoteCache.Driver).Warn("unknown remote cache driver, falling back to none")
		metrics.RemoteCacheUp.Set(0)
		return core.NewNoneRemoteCache(), nil
	}
}
