// @title        Research Tracker Dashboard
// @version      1.0
// @description  Session-aware dashboard over the research tracker API.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/api"
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/service"
	httpinfra "github.com/research-tracker/dashboard/internal/infrastructure/http"
	"github.com/research-tracker/dashboard/internal/infrastructure/http/handlers"
	"github.com/research-tracker/dashboard/internal/infrastructure/queue"
	"github.com/research-tracker/dashboard/internal/infrastructure/researchapi"
	"github.com/research-tracker/dashboard/internal/infrastructure/transport"
	"github.com/research-tracker/dashboard/internal/pkg/config"
	"github.com/research-tracker/dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
		Fields: map[string]string{"service": "research-dashboard", "env": cfg.Env},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("dashboard stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("close session storage")
		}
	}()

	apiCfg := researchapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}

	// Login and signup go through a client without the authenticated
	// transport: a refused login is not a rejected session.
	plain, err := researchapi.New(apiCfg, nil, log)
	if err != nil {
		return err
	}

	events := queue.NewDispatcher(log)
	session := service.NewSessionStore(store, researchapi.NewAuthGateway(plain), service.NewTokenValidator(), events, log)
	guard := service.NewAccessGuard(session, log)

	events.Subscribe("access_guard", guard.HandleSessionEvent)
	events.Subscribe("audit", func(_ context.Context, ev domain.SessionEvent) {
		log.Info().
			Str("component", "audit").
			Str("event", string(ev.Kind)).
			Str("username", ev.Username).
			Str("cause", ev.Cause).
			Time("at", ev.OccurredAt).
			Msg("session changed")
	})
	events.Start(ctx)

	client, err := researchapi.New(apiCfg, transport.NewAuthenticated(nil, session, events, log), log)
	if err != nil {
		return err
	}

	if err := session.Initialize(ctx); err != nil {
		return err
	}
	if u, ok := session.CurrentUser(); ok {
		log.Info().Str("username", u.Username).Str("role", u.Role.String()).Msg("session restored")
	}

	e := httpinfra.NewRouter(log,
		handlers.Check{Name: "session_storage", Ping: store.Ping},
		handlers.Check{Name: "research_api", Ping: plain.Ping},
	)
	api.Register(e, api.Dependencies{
		Session:    session,
		Guard:      guard,
		Projects:   client,
		Milestones: client,
		Documents:  client,
		Users:      client,
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("api", client.BaseURL()).Msg("dashboard listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
