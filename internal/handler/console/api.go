package console

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
	"github.com/buynlarge/console/pkg/utils"
)

type productView struct {
	catalog.Product
	Favorite   bool   `json:"favorite"`
	StockLabel string `json:"stockLabel"`
}

type productsResponse struct {
	Remote   bool          `json:"remote"`
	Products []productView `json:"products"`
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	products, remote := c.catalog.Load(r.Context())
	products = catalogService.Search(products, r.URL.Query().Get("q"))
	if rec := r.URL.Query().Get("rec"); rec != "" {
		products = catalogService.ByRecommendation(products, catalog.Recommendation(rec))
	}

	favorites := h.favoriteSet(r, c)
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, productView{Product: p, Favorite: favorites[p.ID], StockLabel: catalog.StockLabel(p.Stock)})
	}
	utils.RespondJSON(w, http.StatusOK, productsResponse{Remote: remote, Products: views})
}

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	favorite, err := clientFrom(r).favorites.Toggle(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"id": id, "favorite": favorite})
}

type dashboardResponse struct {
	Remote     bool            `json:"remote"`
	Stats      dashboard.Stats `json:"stats"`
	TotalUnits int             `json:"totalUnits"`
	TotalValue int             `json:"totalValue"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	frame := dashboard.ParseTimeFrame(r.URL.Query().Get("period"))
	stats, remote := clientFrom(r).dashboard.Load(r.Context(), frame)
	utils.RespondJSON(w, http.StatusOK, dashboardResponse{
		Remote:     remote,
		Stats:      stats,
		TotalUnits: stats.TotalUnits(),
		TotalValue: stats.TotalValue(),
	})
}

func (h *Handler) handleChatReset(w http.ResponseWriter, r *http.Request) {
	if err := clientFrom(r).chat.Reset(r.Context()); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleNotifications lists the notifications recorded for this browser,
// oldest first, so a freshly opened tab can show what it missed.
func (h *Handler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, clientFrom(r).center.All())
}
