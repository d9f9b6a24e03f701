// Command kopikata manages the café catalog from a terminal. The admin
// session is kept in ~/.kopikata/session.json, or $KOPIKATA_SESSION.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/internal/config"
	"github.com/jrsteele09/go-cafe-storefront/internal/logging"
	"github.com/jrsteele09/go-cafe-storefront/session"
)

const sessionEnvVar = "KOPIKATA_SESSION"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "kopikata: loading .env: %s\n", err)
	}
	c := config.New()
	logging.Setup(c.GetEnv(), config.GetEnv("LOG_LEVEL", "warn"))

	path, err := sessionPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kopikata: %s\n", err)
		os.Exit(1)
	}
	client := api.New(
		api.Config{BaseURL: c.GetAPIBaseURL(), Timeout: c.GetAPITimeout()},
		session.New(session.NewFileStore(path)),
		api.WithDirectPUT(c.GetDirectPUT()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{client: client, out: os.Stdout}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kopikata: %s\n", describe(err))
		os.Exit(exitCode(err))
	}
}

func sessionPath() (string, error) {
	if path := os.Getenv(sessionEnvVar); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".kopikata", "session.json"), nil
}
