package rest

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/prolinkhq/meetings/pkg/models"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

type App interface {
	AddMeeting(ctx context.Context, req models.MeetingRequest, actingUserID string) (models.Meeting, error)
	GetMeetings(ctx context.Context, filter models.MeetingFilter) ([]models.EnrichedMeeting, error)
	GetMeeting(ctx context.Context, id string) (models.MeetingDetails, error)
	UpdateMeeting(ctx context.Context, id string, patch models.MeetingRequest) (models.UpdateResult, error)
	DeleteMeeting(ctx context.Context, id string) (models.Meeting, error)
	DeleteMeetings(ctx context.Context, ids []string) (int64, error)
}

type Server struct {
	log       *logrus.Entry
	app       App
	address   string
	version   string
	publicKey *rsa.PublicKey
}

func NewServer(log *logrus.Logger, app App, address, version string, publicKey *rsa.PublicKey) *Server {
	s := Server{
		log:       log.WithField("component", "rest"),
		app:       app,
		address:   address,
		version:   version,
		publicKey: publicKey,
	}
	return &s
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{Addr: s.address, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.log.Warnf("err during shutdown: %v", err)
		}
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Get("/version", s.versionHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Route("/meeting", func(r chi.Router) {
			r.Use(s.jwtAuth)
			r.Get("/", s.getMeetingsHandler)
			r.Post("/add", s.addMeetingHandler)
			r.Get("/view/{id}", s.viewMeetingHandler)
			r.Put("/edit/{id}", s.editMeetingHandler)
			r.Delete("/delete/{id}", s.deleteMeetingHandler)
			r.Post("/deleteMany", s.deleteManyHandler)
		})
	})
	return r
}

func (s *Server) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_, err := fmt.Fprintf(w, "%s\n", s.version)
	if err != nil {
		s.log.Warnf("err during writing to connection: %v", err)
	}
}
