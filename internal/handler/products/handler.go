package products

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/pkg/utils"
)

// Handler serves the product catalog.
type Handler struct {
	products catalog.Store
}

// New creates the products handler.
func New(products catalog.Store) *Handler {
	return &Handler{products: products}
}

// RegisterRoutes mounts the catalog routes under r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products/products/", h.handleList)
	r.Get("/products/products/{id}/", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.products.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, ok := h.products.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}
