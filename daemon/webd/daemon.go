package webd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/params"
)

// WebDaemon serves the pipeline over HTTP: POST a track, get it back processed.
type WebDaemon struct {
	Config  *params.WebDaemonConfig
	logger  *slog.Logger
	started time.Time

	documents atomic.Int64
	pointsIn  atomic.Int64
	pointsOut atomic.Int64
}

// NewWebDaemon checks the base pipeline config up front,
// so a misconfigured daemon fails at startup instead of on every request.
func NewWebDaemon(config *params.WebDaemonConfig) (*WebDaemon, error) {
	if config == nil {
		config = params.DefaultWebDaemonConfig()
	}
	if _, err := api.NewPipeline(config.Pipeline); err != nil {
		return nil, err
	}
	return &WebDaemon{
		Config:  config,
		logger:  slog.With("d", "web"),
		started: time.Now(),
	}, nil
}

// Run listens on the configured address and serves until ctx is done,
// then shuts the server down gracefully.
func (s *WebDaemon) Run(ctx context.Context) error {
	ln, err := net.Listen(s.Config.Network, s.Config.Address)
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:     s.NewRouter(),
		ReadTimeout: s.Config.ReadTimeout,
	}
	s.logger.Info("Starting web daemon", "network", s.Config.Network, "address", ln.Addr().String())

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(ln)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("Stopping web daemon")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *WebDaemon) NewRouter() *mux.Router {
	/*
		StrictSlash defines the trailing slash behavior for new routes. The initial value is false.
		When false, if the route path is "/path", accessing "/path/" will not match this route and vice versa.
	*/
	router := mux.NewRouter().StrictSlash(false)
	router.Use(s.loggingMiddleware)
	router.Use(ghandlers.RecoveryHandler(
		ghandlers.RecoveryLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError)),
	))

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	apiJSONRoutes.Use(contentTypeMiddlewareFunc("application/json"))
	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)

	compressRoutes := apiRoutes.NewRoute().Subrouter()
	compressRoutes.Use(s.tokenAuthenticationMiddleware)
	compressRoutes.Use(ghandlers.CompressHandler)
	compressRoutes.Path("/compress").HandlerFunc(s.handleCompress).Methods(http.MethodPost)

	return router
}
