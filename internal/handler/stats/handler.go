package stats

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
	"github.com/buynlarge/console/pkg/utils"
)

// Handler serves the dashboard statistics.
type Handler struct {
	products catalog.Store
}

// New creates the stats handler.
func New(products catalog.Store) *Handler {
	return &Handler{products: products}
}

// RegisterRoutes mounts the dashboard routes under r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard/stats/", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	period := dashboard.ParseTimeFrame(r.URL.Query().Get("period"))
	utils.RespondJSON(w, http.StatusOK, Build(period, h.products.List()))
}

// Build derives inventory and category totals from the catalog. Sales series
// are not tracked by the demo backend and come from the sample data.
func Build(period dashboard.TimeFrame, products []catalog.ProductFromAPI) dashboard.Stats {
	stats := dashboard.Examples(period)
	if len(products) == 0 {
		return stats
	}

	stats.Inventory = nil
	stats.Categories = nil
	brandIdx := map[string]int{}
	categoryIdx := map[string]int{}
	for _, p := range products {
		i, ok := brandIdx[p.BrandName]
		if !ok {
			i = len(stats.Inventory)
			brandIdx[p.BrandName] = i
			stats.Inventory = append(stats.Inventory, dashboard.NamedValue{Name: p.BrandName})
		}
		stats.Inventory[i].Value += p.Stock

		j, ok := categoryIdx[p.CategoryName]
		if !ok {
			j = len(stats.Categories)
			categoryIdx[p.CategoryName] = j
			stats.Categories = append(stats.Categories, dashboard.CategoryTotal{Categoria: p.CategoryName})
		}
		price, _ := strconv.ParseFloat(p.Price, 64)
		stats.Categories[j].Cantidad += p.Stock
		stats.Categories[j].Valor += int(price * float64(p.Stock))
	}
	return stats
}
