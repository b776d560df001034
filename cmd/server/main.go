// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/connortbot/yappers.live/internal/auth"
	"github.com/connortbot/yappers.live/internal/cache"
	"github.com/connortbot/yappers.live/internal/game"
	"github.com/connortbot/yappers.live/internal/handlers"
)

func main() {
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	rdb, err := cache.Connect(ctx)
	cancel()
	if err != nil {
		logger.Fatalf("failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	sessions, err := auth.NewSessions()
	if err != nil {
		logger.Fatalf("failed to init sessions: %v", err)
	}

	store := game.NewRedisStore(rdb)
	games := game.NewService(store, logger)
	hub := handlers.NewHub(logger)
	srv := handlers.NewServer(games, sessions, hub, logger)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // sockets stay open
	}

	errc := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", addr)
		errc <- server.ListenAndServe()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("server exited: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("shutdown error: %v", err)
		}
	}
}
