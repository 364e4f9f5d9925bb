package catalog

// FavoritesKey is the client-local storage key holding favorited product ids.
const FavoritesKey = "favorites"

// PlaceholderImage is shown for products the API returns without an image.
const PlaceholderImage = "https://via.placeholder.com/300x200?text=Sin+Imagen"

// Specification is a single key/value attribute attached to a product.
type Specification struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProductFromAPI mirrors the products endpoint payload. Price arrives as a
// decimal string.
type ProductFromAPI struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          string          `json:"price"`
	Stock          int             `json:"stock"`
	Image          *string         `json:"image"`
	Category       int64           `json:"category"`
	CategoryName   string          `json:"category_name"`
	Brand          int64           `json:"brand"`
	BrandName      string          `json:"brand_name"`
	Specifications []Specification `json:"specifications"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

// Recommendation buckets products by how strongly the catalog pushes them.
type Recommendation string

const (
	RecommendationHigh   Recommendation = "high"
	RecommendationMedium Recommendation = "medium"
	RecommendationLow    Recommendation = "low"
)

// Product is the catalog entry as the console presents it.
type Product struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Brand          string            `json:"brand"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	Image          string            `json:"image"`
	Description    string            `json:"description"`
	Specifications map[string]string `json:"specifications"`
	Rating         float64           `json:"rating"`
	Recommendation Recommendation    `json:"recommendation"`
}

// RecommendationFor derives the recommendation level from stock on hand.
func RecommendationFor(stock int) Recommendation {
	switch {
	case stock > 10:
		return RecommendationHigh
	case stock < 3:
		return RecommendationLow
	default:
		return RecommendationMedium
	}
}

// StockLabel is the badge text shown next to a product.
func StockLabel(stock int) string {
	switch {
	case stock > 10:
		return "En stock"
	case stock > 0:
		return "Pocas unidades"
	default:
		return "Agotado"
	}
}
