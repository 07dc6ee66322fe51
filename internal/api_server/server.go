package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/config"
	handlers "github.com/talentpool/pipeline/internal/handlers/v1alpha1"
	"github.com/talentpool/pipeline/internal/notify"
	"github.com/talentpool/pipeline/internal/service"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/pkg/metrics"
	"github.com/talentpool/pipeline/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	notifier *notify.Dispatcher
	listener net.Listener
}

// New returns a new instance of the pipeline API server.
func New(
	cfg *config.Config,
	store store.Store,
	notifier *notify.Dispatcher,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		notifier: notifier,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	applicationSrv := service.NewApplicationService(s.store, s.notifier)
	interviewSrv := service.NewInterviewService(s.store, applicationSrv, s.notifier)
	offerSrv := service.NewOfferService(s.store, applicationSrv, s.notifier)

	h := handlers.NewServiceHandler(applicationSrv, interviewSrv, offerSrv)
	router.Route("/api/v1alpha1", func(r chi.Router) {
		r.Use(auth.Identity)
		h.Routes(r)
	})

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
