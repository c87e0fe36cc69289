package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/service"
	authmw "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

const purgeInterval = time.Hour

func serveCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFiles, true)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve(ctx)
		},
	}
}

func (a *app) handler(ctx context.Context, payments service.PaymentProcessor) (*echo.Echo, *service.AuthService, error) {
	if err := a.repo.Migrate(ctx); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if a.index != nil {
		if err := a.index.EnsureIndex(ctx); err != nil {
			a.log.Warn("elasticsearch index setup failed", "error", err)
		}
	}

	ts, err := tokens.NewService(a.cfg.JWTSecret, a.cfg.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	auth := &service.AuthService{Repo: a.repo, Tokens: ts, Events: a.events}
	id := &httpserver.Identity{Users: auth}
	gate := authmw.NewGate(ts, a.repo)

	e := httpserver.New(a.log, &httpserver.Deps{
		Users:   &httpserver.UserHTTP{Svc: auth, Gate: gate, ID: id},
		Catalog: &httpserver.CatalogHTTP{Svc: a.catalog()},
		Cart: &httpserver.CartHTTP{
			Svc: &service.CartService{Repo: a.repo, Events: a.events},
			Checkout: &service.CheckoutService{
				Repo:     a.repo,
				Payments: payments,
				Currency: a.cfg.Currency,
				Events:   a.events,
			},
			ID: id,
		},
		Reviews:   &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: a.repo}, ID: id},
		Gate:      gate,
		Ready:     a.repo.Ping,
		StaticDir: a.cfg.StaticDir,
	})
	return e, auth, nil
}

func (a *app) serve(ctx context.Context) error {
	e, auth, err := a.handler(ctx, payment.NewStripe(a.cfg.StripeSecretKey))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go a.purgeLoop(ctx, auth)

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("graceful shutdown failed", "error", err)
		return err
	}
	return nil
}

// purgeLoop drops deny-list entries whose tokens have expired anyway.
func (a *app) purgeLoop(ctx context.Context, auth *service.AuthService) {
	t := time.NewTicker(purgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := auth.PurgeRevoked(ctx)
			if err != nil {
				a.log.Warn("revoked token purge failed", "error", err)
				continue
			}
			if n > 0 {
				a.log.Info("revoked tokens purged", "count", n)
			}
		}
	}
}
