package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
)

func TestStatsEndpoint(t *testing.T) {
	r := chi.NewRouter()
	New(catalog.NewMemoryStore(catalog.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/stats/?period=quarter", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got dashboard.Stats
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Period != dashboard.TimeFrameQuarter {
		t.Fatalf("expected quarter, got %s", got.Period)
	}
}

func TestBuildAggregatesCatalog(t *testing.T) {
	products := []catalog.ProductFromAPI{
		{BrandName: "HP", CategoryName: "Computadoras", Price: "100.00", Stock: 2},
		{BrandName: "HP", CategoryName: "Tablets", Price: "50.50", Stock: 2},
		{BrandName: "Dell", CategoryName: "Computadoras", Price: "200", Stock: 1},
	}

	stats := Build(dashboard.TimeFrameMonth, products)

	wantInventory := []dashboard.NamedValue{{Name: "HP", Value: 4}, {Name: "Dell", Value: 1}}
	if len(stats.Inventory) != 2 || stats.Inventory[0] != wantInventory[0] || stats.Inventory[1] != wantInventory[1] {
		t.Fatalf("unexpected inventory %+v", stats.Inventory)
	}
	if stats.TotalUnits() != 5 {
		t.Fatalf("expected 5 units, got %d", stats.TotalUnits())
	}
	if stats.TotalValue() != 200+101+200 {
		t.Fatalf("unexpected total value %d", stats.TotalValue())
	}
	if len(stats.PeriodSales) == 0 {
		t.Fatal("expected sample period sales")
	}
}

func TestBuildWithoutCatalogUsesSamples(t *testing.T) {
	got := Build(dashboard.TimeFrameWeek, nil)
	want := dashboard.Examples(dashboard.TimeFrameWeek)
	if got.TotalUnits() != want.TotalUnits() {
		t.Fatalf("expected sample data, got %+v", got)
	}
}
