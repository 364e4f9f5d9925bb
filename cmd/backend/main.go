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

	"github.com/buynlarge/console/internal/config"
	"github.com/buynlarge/console/internal/handler"
	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/service/ai"
	"github.com/buynlarge/console/internal/service/chat"
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

	catalogStore := catalog.NewMemoryStore(catalog.Seed())
	chatService := chat.NewService()

	var responder ai.Responder = ai.KeywordResponder{}
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, catalogStore, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing with keyword replies only")
		} else {
			responder = ai.WithFallback(aiService, ai.KeywordResponder{})
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("ark credentials not configured, using keyword replies")
	}

	router := handler.NewRouter(catalogStore, chatService, responder)

	startServer(ctx, cfg.Server.AddrOr(":8000"), router)
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Buy n Large demo backend listening on %s", addr)
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
