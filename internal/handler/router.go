package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/buynlarge/console/internal/handler/chatbot"
	"github.com/buynlarge/console/internal/handler/products"
	"github.com/buynlarge/console/internal/handler/stats"
	middlewarePkg "github.com/buynlarge/console/internal/middleware"
	"github.com/buynlarge/console/internal/model/catalog"
	aiService "github.com/buynlarge/console/internal/service/ai"
	chatService "github.com/buynlarge/console/internal/service/chat"
	"github.com/buynlarge/console/pkg/utils"
)

// NewRouter wires the demo backend API.
func NewRouter(catalogStore catalog.Store, chatSvc *chatService.Service, responder aiService.Responder) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatbotHandler := chatbot.New(chatSvc, responder)
	productsHandler := products.New(catalogStore)
	statsHandler := stats.New(catalogStore)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chatbotHandler.RegisterRoutes(api)
		productsHandler.RegisterRoutes(api)
		statsHandler.RegisterRoutes(api)
	})

	return r
}
