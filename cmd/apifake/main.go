// Command apifake serves an in-memory catalog backend for local development.
// Routes are mounted under /api so the storefront's default API_BASE_URL
// points straight at it.
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

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/internal/config"
	"github.com/jrsteele09/go-cafe-storefront/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	envelope := flag.Bool("envelope", false, "wrap responses in {\"data\": ...}")
	seed := flag.Bool("seed", true, "load the house menu at startup")
	username := flag.String("user", "admin", "admin account created at startup (empty to skip)")
	password := flag.String("password", "admin123", "password for -user")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %s\n", err)
	}
	c := config.New()
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	figure.NewFigure("apifake", "cybermedium", true).Print()
	fmt.Println()

	var opts []apifake.Option
	if *envelope {
		opts = append(opts, apifake.WithEnvelope())
	}
	backend := apifake.New(opts...)
	if *seed {
		backend.SeedMenu()
	}
	if *username != "" {
		if err := backend.AddUser(*username, *password); err != nil {
			log.Fatal().Err(err).Msg("creating admin user")
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", backend))
	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		log.Info().Str("addr", *addr).Bool("envelope", *envelope).Msg("apifake listening on /api")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("apifake stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Msg("apifake shutdown")
	}
}
