package dashboard

import (
	"fmt"
	"math"
)

// TimeFrame selects the aggregation window of the dashboard.
type TimeFrame string

const (
	TimeFrameWeek    TimeFrame = "week"
	TimeFrameMonth   TimeFrame = "month"
	TimeFrameQuarter TimeFrame = "quarter"
	TimeFrameYear    TimeFrame = "year"
)

// ParseTimeFrame maps user input onto a TimeFrame, defaulting to month.
func ParseTimeFrame(raw string) TimeFrame {
	switch TimeFrame(raw) {
	case TimeFrameWeek, TimeFrameMonth, TimeFrameQuarter, TimeFrameYear:
		return TimeFrame(raw)
	default:
		return TimeFrameMonth
	}
}

// Label is the Spanish caption used by the period selector.
func (t TimeFrame) Label() string {
	switch t {
	case TimeFrameWeek:
		return "Semanal"
	case TimeFrameQuarter:
		return "Trimestral"
	case TimeFrameYear:
		return "Anual"
	default:
		return "Mensual"
	}
}

// NamedValue is a single labelled datum (inventory per brand, sales per week).
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// MonthlySales holds units sold per category for one month.
type MonthlySales struct {
	Name         string `json:"name"`
	Computadoras int    `json:"computadoras"`
	Telefonos    int    `json:"telefonos"`
	Tablets      int    `json:"tablets"`
}

// CategoryTotal summarises stock units and value per category.
type CategoryTotal struct {
	Categoria string `json:"categoria"`
	Cantidad  int    `json:"cantidad"`
	Valor     int    `json:"valor"`
}

// Stats is the full dashboard payload.
type Stats struct {
	Period      TimeFrame       `json:"period"`
	Inventory   []NamedValue    `json:"inventory"`
	Sales       []MonthlySales  `json:"sales"`
	Categories  []CategoryTotal `json:"categories"`
	PeriodSales []NamedValue    `json:"period_sales"`
}

// TotalUnits sums category quantities.
func (s Stats) TotalUnits() int {
	total := 0
	for _, c := range s.Categories {
		total += c.Cantidad
	}
	return total
}

// TotalValue sums category value.
func (s Stats) TotalValue() int {
	total := 0
	for _, c := range s.Categories {
		total += c.Valor
	}
	return total
}

// FormatNumber abbreviates values of a thousand or more ("12.5k").
func FormatNumber(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// PercentChange returns the relative change from prev to value in percent.
// A zero prev yields zero rather than an infinite change.
func PercentChange(value, prev int) float64 {
	if prev == 0 {
		return 0
	}
	return math.Round(float64(value-prev)/float64(prev)*1000) / 10
}

// Examples returns the fixed sample data shown when the stats endpoint fails.
func Examples(period TimeFrame) Stats {
	return Stats{
		Period: period,
		Inventory: []NamedValue{
			{Name: "HP", Value: 15},
			{Name: "Dell", Value: 8},
			{Name: "Apple", Value: 5},
			{Name: "Samsung", Value: 32},
			{Name: "Lenovo", Value: 12},
			{Name: "Asus", Value: 9},
		},
		Sales: []MonthlySales{
			{Name: "Ene", Computadoras: 45, Telefonos: 32, Tablets: 18},
			{Name: "Feb", Computadoras: 38, Telefonos: 30, Tablets: 23},
			{Name: "Mar", Computadoras: 52, Telefonos: 35, Tablets: 28},
			{Name: "Abr", Computadoras: 48, Telefonos: 42, Tablets: 20},
			{Name: "May", Computadoras: 61, Telefonos: 48, Tablets: 25},
			{Name: "Jun", Computadoras: 55, Telefonos: 53, Tablets: 30},
		},
		Categories: []CategoryTotal{
			{Categoria: "Computadoras", Cantidad: 28, Valor: 32500},
			{Categoria: "Teléfonos", Cantidad: 32, Valor: 25600},
			{Categoria: "Tablets", Cantidad: 22, Valor: 14300},
			{Categoria: "Accesorios", Cantidad: 45, Valor: 8500},
			{Categoria: "Audio", Cantidad: 28, Valor: 9800},
		},
		PeriodSales: []NamedValue{
			{Name: "Semana 1", Value: 12500},
			{Name: "Semana 2", Value: 14800},
			{Name: "Semana 3", Value: 13200},
			{Name: "Semana 4", Value: 15900},
		},
	}
}
