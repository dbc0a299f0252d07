package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jisetihq/jiseti/config"
	"github.com/jisetihq/jiseti/db"
	"github.com/jisetihq/jiseti/mailingservices"
	"github.com/jisetihq/jiseti/services"
	log "github.com/sirupsen/logrus"
)

// Server wires the HTTP layer to the services and the repositories it needs
// directly (token blacklist checks, user lookup in middleware).
type Server struct {
	Config              *config.Config
	Mail                *mailingservices.Mailgun
	AuthRepository      db.AuthRepository
	AuthService         services.AuthService
	RecordService       services.RecordService
	VoteService         services.VoteService
	MediaService        services.MediaService
	NotificationService services.NotificationService
	DB                  db.GormDB
}

// Start runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests for up to five seconds before exiting.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		log.Printf("jiseti listening on port %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	if s.NotificationService != nil {
		s.NotificationService.Close()
	}
	log.Println("server exited")
}
