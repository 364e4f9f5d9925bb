package console

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"

	model "github.com/buynlarge/console/internal/model/auth"
	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
	"github.com/buynlarge/console/internal/service/auth"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
)

type pageData struct {
	Title       string
	User        *model.User
	Error       string
	Email       string
	ToastMillis int64

	Query     string
	Remote    bool
	Products  []catalog.Product
	Favorites map[int64]bool

	Stats  dashboard.Stats
	Frames []dashboard.TimeFrame
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if u, ok := auth.UserFrom(r.Context()); ok {
		data.User = &u
	}

	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("[console] render %s failed: %v", name, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := clientFrom(r).gate.Require(); err == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login", pageData{Title: "Iniciar sesión"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login", pageData{Title: "Iniciar sesión", Error: "Solicitud inválida"})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	gate := clientFrom(r).gate
	if !gate.Login(r.Context(), email, r.PostFormValue("password")) {
		h.render(w, r, http.StatusUnauthorized, "login", pageData{Title: "Iniciar sesión", Error: gate.Err(), Email: email})
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	clientFrom(r).gate.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) handleChatPage(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	h.render(w, r, http.StatusOK, "chat", pageData{
		Title:       "Asistente",
		ToastMillis: c.center.TTL().Milliseconds(),
	})
}

func (h *Handler) handleProductsPage(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	ctx := r.Context()

	products, remote := c.catalog.Load(ctx)
	query := r.URL.Query().Get("q")
	products = catalogService.Search(products, query)
	if rec := r.URL.Query().Get("rec"); rec != "" {
		products = catalogService.ByRecommendation(products, catalog.Recommendation(rec))
	}

	h.render(w, r, http.StatusOK, "products", pageData{
		Title:     "Productos",
		Query:     query,
		Remote:    remote,
		Products:  products,
		Favorites: h.favoriteSet(r, c),
	})
}

func (h *Handler) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)
	frame := dashboard.ParseTimeFrame(r.URL.Query().Get("period"))
	stats, remote := c.dashboard.Load(r.Context(), frame)

	h.render(w, r, http.StatusOK, "dashboard", pageData{
		Title:  "Dashboard",
		Remote: remote,
		Stats:  stats,
		Frames: []dashboard.TimeFrame{dashboard.TimeFrameWeek, dashboard.TimeFrameMonth, dashboard.TimeFrameQuarter, dashboard.TimeFrameYear},
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if u, ok := clientFrom(r).gate.CurrentUser(); ok {
		r = r.WithContext(auth.WithUser(r.Context(), u))
	}
	h.render(w, r, http.StatusNotFound, "notfound", pageData{Title: "Página no encontrada"})
}

func (h *Handler) favoriteSet(r *http.Request, c *client) map[int64]bool {
	ids, err := c.favorites.List(r.Context())
	if err != nil {
		log.Printf("[console] favorites unavailable for client=%s: %v", c.id, err)
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
