// Package console serves the browser flavour of the admin console: the same
// gate, chat, catalog and dashboard views as the terminal console, with
// per-browser state kept in a namespace of a shared store.
package console

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/buynlarge/console/internal/apiclient"
	"github.com/buynlarge/console/internal/service/auth"
	"github.com/buynlarge/console/internal/storage"
	"github.com/buynlarge/console/pkg/utils"
)

// Options configures the web console.
type Options struct {
	Store       storage.Store
	API         *apiclient.Client
	Credentials *auth.Credentials
	// Secret signs the client cookie; a random one is generated when empty.
	Secret    []byte
	NotifyTTL time.Duration
}

// Handler serves the web console.
type Handler struct {
	secret   []byte
	clients  *registry
	upgrader websocket.Upgrader
	now      func() time.Time
}

type clientKey struct{}

// New builds the console handler.
func New(opts Options) (*Handler, error) {
	if opts.Store == nil || opts.API == nil || opts.Credentials == nil {
		return nil, errors.New("console: store, api and credentials are required")
	}

	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
		log.Println("[console] CONSOLE_COOKIE_SECRET not set, browser identities reset on restart")
	}

	ttl := opts.NotifyTTL
	if ttl <= 0 {
		ttl = 4500 * time.Millisecond
	}

	return &Handler{
		secret:  secret,
		clients: newRegistry(opts.Store, opts.API, opts.Credentials, ttl),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		now: time.Now,
	}, nil
}

// Routes returns the console router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.identify)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Group(func(pages chi.Router) {
		pages.Use(h.requirePage)
		pages.Get("/", h.handleChatPage)
		pages.Get("/productos", h.handleProductsPage)
		pages.Get("/dashboard", h.handleDashboardPage)
	})

	r.Group(func(api chi.Router) {
		api.Use(h.requireAPI)
		api.Get("/ws/chat", h.handleChatSocket)
		api.Get("/events", h.handleEvents)
		api.Get("/api/products", h.handleProducts)
		api.Post("/api/favorites/{id}", h.handleToggleFavorite)
		api.Get("/api/dashboard", h.handleDashboard)
		api.Post("/api/chat/reset", h.handleChatReset)
		api.Get("/api/notifications", h.handleNotifications)
	})

	r.NotFound(h.handleNotFound)

	return r
}

// identify resolves the browser's client id from its cookie, issuing a new
// one when the cookie is missing or was not signed by this console. Only
// browsers presenting a valid cookie get a client kept in memory.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if cookie, err := r.Cookie(ClientCookie); err == nil {
			id, err := parseClientToken(h.secret, cookie.Value)
			if err != nil {
				log.Printf("[console] discarding client cookie: %v", err)
			} else {
				clientID = id
			}
		}

		var c *client
		if clientID == "" {
			clientID = uuid.NewString()
			token, err := issueClientToken(h.secret, clientID, h.now())
			if err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "could not identify client")
				return
			}
			setClientCookie(w, token)
			c = h.clients.transient(r.Context(), clientID)
		} else {
			c = h.clients.get(r.Context(), clientID)
		}

		ctx := context.WithValue(r.Context(), clientKey{}, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requirePage redirects to the login page when nobody is logged in. It runs
// on every navigation, so a logout in another tab takes effect immediately.
func (h *Handler) requirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := clientFrom(r).gate.Require()
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func (h *Handler) requireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := clientFrom(r).gate.Require()
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func clientFrom(r *http.Request) *client {
	return r.Context().Value(clientKey{}).(*client)
}
