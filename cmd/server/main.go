package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/buynlarge/console/internal/apiclient"
	"github.com/buynlarge/console/internal/config"
	"github.com/buynlarge/console/internal/handler/console"
	"github.com/buynlarge/console/internal/id"
	"github.com/buynlarge/console/internal/service/auth"
	"github.com/buynlarge/console/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if err := id.Init(cfg.Console.SnowflakeNode); err != nil {
		log.Fatalf("failed to initialize id generator: %v", err)
	}

	store, closer, err := storage.Open(ctx, cfg.Storage.Options())
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closer.Close()

	creds, err := auth.NewCredentials(auth.DemoAccounts())
	if err != nil {
		log.Fatalf("failed to build credential table: %v", err)
	}

	h, err := console.New(console.Options{
		Store:       store,
		API:         apiclient.New(cfg.API.BaseURL, nil),
		Credentials: creds,
		Secret:      []byte(cfg.Console.CookieSecret),
		NotifyTTL:   cfg.Console.NotifyTTL,
	})
	if err != nil {
		log.Fatalf("failed to build console: %v", err)
	}

	addr := cfg.Server.AddrOr(":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Buy n Large web console listening on %s (api=%s)", addr, cfg.API.BaseURL)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
