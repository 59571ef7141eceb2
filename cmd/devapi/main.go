// Command devapi serves the in-memory development GraphQL API the storefront can point FAUNA_GRAPHQL_URL at.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jrsteele09/go-storefront/devapi"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/logging"
	fakeownerrepo "github.com/jrsteele09/go-storefront/owners/repofake"
	storerepofakes "github.com/jrsteele09/go-storefront/stores/repofakes"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running dev API")
	}
}

func run() error {
	c := config.New()
	logging.Setup(c.GetEnv(), c.GetLogLevel())

	guestKey := c.GetDevAPIGuestKey()
	if guestKey == "" {
		guestKey = c.GetGuestKey()
	}
	if guestKey == "" {
		log.Warn().Msg("No guest key configured, the public shop list will be unavailable")
	}

	api, err := devapi.New(fakeownerrepo.NewFakeOwnerRepo(), storerepofakes.NewFakeStoreRepo(), devapi.WithGuestKey(guestKey))
	if err != nil {
		return errors.Wrap(err, "[devapi main] new")
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", api)
	srv := &http.Server{Addr: c.GetDevAPIPort(), Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Dev API listening on http://localhost%s/graphql", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
