/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the request lifecycle engine server: wires the
  SQLite store into the checker, lifecycle and HTTP handlers, then runs
  with graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment config (.env honored), apply flag overrides
  2. Open SQLite store (schema auto-migrated)
  3. Build checker + lifecycle with the wall-clock date
  4. Configure router and start the server

COMMAND-LINE FLAGS:
  -port    HTTP server port (default from PORT, else 8080)
  -db      SQLite database path (default from DB_PATH, else requests.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  active requests, close the database, exit.

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite:  database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/request-engine/api"
	"github.com/warp/request-engine/calendar"
	"github.com/warp/request-engine/config"
	"github.com/warp/request-engine/payroll"
	"github.com/warp/request-engine/requests"
	"github.com/warp/request-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	clock := func() calendar.Date { return calendar.DateOf(time.Now()) }

	st, err := sqlite.New(*dbPath, payroll.DefaultSchedule(), clock)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer st.Close()

	checker := requests.NewChecker(st, clock)
	lifecycle := requests.NewLifecycle(st, checker, st, st)

	handler := api.NewHandler(lifecycle, st, st, clock, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped")
}
