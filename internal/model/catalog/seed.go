package catalog

// Examples is the fixed set shown when the products endpoint is unreachable.
func Examples() []Product {
	return []Product{
		{
			ID:          1,
			Name:        "Laptop HP Pavilion",
			Brand:       "HP",
			Category:    "Computadoras",
			Price:       899.99,
			Stock:       15,
			Image:       "https://via.placeholder.com/300x200",
			Description: "Laptop potente para trabajo y estudios con procesador i5.",
			Specifications: map[string]string{
				"processor": "Intel Core i5",
				"ram":       "8GB",
				"storage":   "512GB SSD",
				"screen":    "15.6 pulgadas",
			},
			Rating:         4.2,
			Recommendation: RecommendationHigh,
		},
		{
			ID:          2,
			Name:        "Laptop Dell Inspiron",
			Brand:       "Dell",
			Category:    "Computadoras",
			Price:       749.99,
			Stock:       8,
			Image:       "https://via.placeholder.com/300x200",
			Description: "Laptop accesible para el día a día.",
			Specifications: map[string]string{
				"processor": "Intel Core i3",
				"ram":       "8GB",
				"storage":   "256GB SSD",
			},
			Rating:         3.8,
			Recommendation: RecommendationMedium,
		},
		{
			ID:          3,
			Name:        "MacBook Air M1",
			Brand:       "Apple",
			Category:    "Computadoras",
			Price:       1099.99,
			Stock:       2,
			Image:       "https://via.placeholder.com/300x200",
			Description: "Ultra ligera con excelente duración de batería.",
			Specifications: map[string]string{
				"processor": "Apple M1",
				"ram":       "8GB",
				"storage":   "256GB SSD",
			},
			Rating:         4.8,
			Recommendation: RecommendationLow,
		},
	}
}

func strPtr(v string) *string { return &v }

// Seed is the catalog the demo backend serves.
func Seed() []ProductFromAPI {
	const stamp = "2024-01-15T10:00:00Z"
	return []ProductFromAPI{
		{
			ID: 1, Name: "Laptop HP Pavilion", Description: "Laptop potente para trabajo y estudios con procesador i5.",
			Price: "899.99", Stock: 15, Image: strPtr("https://via.placeholder.com/300x200?text=HP"),
			Category: 1, CategoryName: "Computadoras", Brand: 1, BrandName: "HP",
			Specifications: []Specification{
				{ID: 1, Key: "Processor", Value: "Intel Core i5"},
				{ID: 2, Key: "RAM", Value: "8GB"},
				{ID: 3, Key: "Storage", Value: "512GB SSD"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 2, Name: "Laptop HP Envy", Description: "Diseño premium para creadores.",
			Price: "1049.99", Stock: 6, Category: 1, CategoryName: "Computadoras", Brand: 1, BrandName: "HP",
			Specifications: []Specification{
				{ID: 4, Key: "Processor", Value: "Intel Core i7"},
				{ID: 5, Key: "RAM", Value: "16GB"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 3, Name: "Laptop Dell Inspiron", Description: "Laptop accesible para el día a día.",
			Price: "749.99", Stock: 8, Category: 1, CategoryName: "Computadoras", Brand: 2, BrandName: "Dell",
			Specifications: []Specification{
				{ID: 6, Key: "Processor", Value: "Intel Core i3"},
				{ID: 7, Key: "RAM", Value: "8GB"},
				{ID: 8, Key: "Storage", Value: "256GB SSD"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 4, Name: "MacBook Air M1", Description: "Ultra ligera con excelente duración de batería.",
			Price: "1099.99", Stock: 5, Category: 1, CategoryName: "Computadoras", Brand: 3, BrandName: "Apple",
			Specifications: []Specification{
				{ID: 9, Key: "Chip", Value: "Apple M1"},
				{ID: 10, Key: "RAM", Value: "8GB"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 5, Name: "Samsung Galaxy S22", Description: "Smartphone con una excelente cámara.",
			Price: "799.99", Stock: 20, Category: 2, CategoryName: "Teléfonos", Brand: 4, BrandName: "Samsung",
			Specifications: []Specification{
				{ID: 11, Key: "Processor", Value: "Snapdragon 8 Gen 1"},
				{ID: 12, Key: "Storage", Value: "128GB"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 6, Name: "iPhone 14", Description: "Uno de nuestros productos más vendidos.",
			Price: "899.99", Stock: 12, Category: 2, CategoryName: "Teléfonos", Brand: 3, BrandName: "Apple",
			Specifications: []Specification{
				{ID: 13, Key: "Chip", Value: "A16 Bionic"},
				{ID: 14, Key: "Storage", Value: "128GB"},
			},
			CreatedAt: stamp, UpdatedAt: stamp,
		},
		{
			ID: 7, Name: "Lenovo Tab P11", Description: "Tablet para entretenimiento y lectura.",
			Price: "329.99", Stock: 1, Category: 3, CategoryName: "Tablets", Brand: 5, BrandName: "Lenovo",
			CreatedAt: stamp, UpdatedAt: stamp,
		},
	}
}
