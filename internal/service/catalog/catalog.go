// Package catalog loads the product catalog for the console views.
package catalog

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"strings"

	"github.com/buynlarge/console/internal/apiclient"
	model "github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/service/notify"
)

const productsPath = "/api/products/products/"

const loadFailedDescription = "No se pudieron cargar los productos desde el servidor. Por favor, intenta de nuevo más tarde."

// Service fetches products from the remote API.
type Service struct {
	api      *apiclient.Client
	notifier notify.Notifier
	rating   func() float64
}

// NewService returns a Service using api, reporting load failures to notifier.
func NewService(api *apiclient.Client, notifier notify.Notifier) *Service {
	return &Service{
		api:      api,
		notifier: notifier,
		rating:   func() float64 { return 3 + rand.Float64()*2 },
	}
}

// Load returns the remote catalog, or the example set plus an error
// notification when it cannot be fetched. The second result reports whether
// the products came from the server.
func (s *Service) Load(ctx context.Context) ([]model.Product, bool) {
	var raw []model.ProductFromAPI
	if err := s.api.GetJSON(ctx, productsPath, &raw); err != nil {
		log.Printf("[catalog] load products failed, showing examples: %v", err)
		if s.notifier != nil {
			s.notifier.Notify(notify.Notification{
				Level:       notify.LevelError,
				Title:       "Error",
				Description: loadFailedDescription,
			})
		}
		return model.Examples(), false
	}

	products := make([]model.Product, 0, len(raw))
	for _, item := range raw {
		products = append(products, s.toProduct(item))
	}
	log.Printf("[catalog] loaded %d products", len(products))
	return products, true
}

func (s *Service) toProduct(item model.ProductFromAPI) model.Product {
	specs := make(map[string]string, len(item.Specifications))
	for _, spec := range item.Specifications {
		specs[strings.ToLower(spec.Key)] = spec.Value
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(item.Price), 64)
	if err != nil {
		log.Printf("[catalog] product %d has unparseable price %q", item.ID, item.Price)
		price = 0
	}

	image := model.PlaceholderImage
	if item.Image != nil && *item.Image != "" {
		image = *item.Image
	}

	return model.Product{
		ID:             item.ID,
		Name:           item.Name,
		Brand:          item.BrandName,
		Category:       item.CategoryName,
		Price:          price,
		Stock:          item.Stock,
		Image:          image,
		Description:    item.Description,
		Specifications: specs,
		Rating:         s.rating(),
		Recommendation: model.RecommendationFor(item.Stock),
	}
}

// Search filters products whose name, brand, category or description contain
// term, ignoring case. A blank term keeps everything.
func Search(products []model.Product, term string) []model.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return products
	}

	var out []model.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.Category), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}

// ByRecommendation keeps the products at the given level.
func ByRecommendation(products []model.Product, level model.Recommendation) []model.Product {
	var out []model.Product
	for _, p := range products {
		if p.Recommendation == level {
			out = append(out, p)
		}
	}
	return out
}
