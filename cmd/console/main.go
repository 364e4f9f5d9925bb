package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/buynlarge/console/internal/apiclient"
	"github.com/buynlarge/console/internal/config"
	"github.com/buynlarge/console/internal/id"
	"github.com/buynlarge/console/internal/service/auth"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
	"github.com/buynlarge/console/internal/service/chatapi"
	"github.com/buynlarge/console/internal/service/conversation"
	dashboardService "github.com/buynlarge/console/internal/service/dashboard"
	"github.com/buynlarge/console/internal/service/notify"
	"github.com/buynlarge/console/internal/service/session"
	"github.com/buynlarge/console/internal/storage"
	"github.com/buynlarge/console/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The terminal belongs to the UI; logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.Console.LogFile), 0o755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}
	logFile, err := tea.LogToFile(cfg.Console.LogFile, "console")
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()

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

	api := apiclient.New(cfg.API.BaseURL, nil)
	center := notify.NewCenter(cfg.Console.NotifyTTL)
	model := tui.New(ctx, tui.Deps{
		Gate:          auth.NewGate(ctx, store, creds),
		Chat:          conversation.New(session.NewIdentity(store), chatapi.New(api), center),
		Catalog:       catalogService.NewService(api, center),
		Favorites:     catalogService.NewFavorites(store),
		Dashboard:     dashboardService.NewService(api, center),
		Notifications: center,
	})
	defer model.Close()

	log.Printf("Buy n Large console starting (api=%s, storage=%s)", cfg.API.BaseURL, cfg.Storage.Driver)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && ctx.Err() == nil {
		log.Fatalf("console error: %v", err)
	}
}
