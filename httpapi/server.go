// Package httpapi exposes the Resolver over a plain REST+PNG HTTP surface
// (§6), grounded on the teacher's cmd/explorer Server: a *mux.Router plus an
// *http.Server, routes registered in one routes() method, middleware
// chained with router.Use.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"xenos/core"
)

// Server is the HTTP facade over a core.ResolverContext.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	resolver   *core.ResolverContext
	log        *logrus.Logger
	bearer     string
}

// NewServer constructs the router and http.Server. bearerToken, if
// non-empty, requires every request (other than /healthz) to carry a
// matching "Authorization: Bearer <token>" header (§6 supplemented
// feature).
func NewServer(addr string, resolver *core.ResolverContext, log *logrus.Logger, bearerToken string) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		resolver: resolver,
		log:      log,
		bearer:   bearerToken,
	}
	s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error { return s.httpServer.ListenAndServe() }

func (s *Server) Shutdown(ctx context.Context) error { return s.httpServer.Shutdown(ctx) }

func (s *Server) routes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	authed := s.router.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/uuid/{name}", s.handleUUID).Methods(http.MethodGet)
	authed.HandleFunc("/uuids", s.handleUUIDs).Methods(http.MethodPost)
	authed.HandleFunc("/profile/{uuid}", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/skin/{uuid}", s.handleSkin).Methods(http.MethodGet)
	authed.HandleFunc("/cape/{uuid}", s.handleCape).Methods(http.MethodGet)
	authed.HandleFunc("/head/{uuid}", s.handleHead).Methods(http.MethodGet)
}
