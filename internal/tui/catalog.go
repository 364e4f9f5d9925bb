package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/model/catalog"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
)

type productsMsg struct {
	products  []catalog.Product
	remote    bool
	favorites []int64
}

type favoriteMsg struct {
	id    int64
	added bool
	err   error
}

var levels = []catalog.Recommendation{"", catalog.RecommendationHigh, catalog.RecommendationMedium, catalog.RecommendationLow}

func levelLabel(level catalog.Recommendation) string {
	switch level {
	case catalog.RecommendationHigh:
		return "Alta"
	case catalog.RecommendationMedium:
		return "Media"
	case catalog.RecommendationLow:
		return "Baja"
	default:
		return "Todas"
	}
}

func loadProductsCmd(ctx context.Context, svc *catalogService.Service, favs *catalogService.Favorites) tea.Cmd {
	return func() tea.Msg {
		products, remote := svc.Load(ctx)
		ids, err := favs.List(ctx)
		if err != nil {
			log.Printf("[tui] load favorites: %v", err)
		}
		return productsMsg{products: products, remote: remote, favorites: ids}
	}
}

func toggleFavoriteCmd(ctx context.Context, favs *catalogService.Favorites, id int64) tea.Cmd {
	return func() tea.Msg {
		added, err := favs.Toggle(ctx, id)
		return favoriteMsg{id: id, added: added, err: err}
	}
}

// visible applies the search term and recommendation filter.
func (m Model) visible() []catalog.Product {
	out := catalogService.Search(m.products, m.search.Value())
	if m.level != "" {
		out = catalogService.ByRecommendation(out, m.level)
	}
	return out
}

func (m Model) updateCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case productsMsg:
		m.loading = false
		m.products, m.remote = msg.products, msg.remote
		m.favorites = make(map[int64]bool, len(msg.favorites))
		for _, id := range msg.favorites {
			m.favorites[id] = true
		}
		m.cursor = 0
		return m, nil

	case favoriteMsg:
		if msg.err != nil {
			log.Printf("[tui] toggle favorite %d: %v", msg.id, msg.err)
			return m, nil
		}
		if msg.added {
			m.favorites[msg.id] = true
		} else {
			delete(m.favorites, msg.id)
		}
		return m, nil

	case tea.KeyMsg:
		items := m.visible()
		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(items)-1 {
				m.cursor++
			}
			return m, nil
		case "tab":
			for i, l := range levels {
				if l == m.level {
					m.level = levels[(i+1)%len(levels)]
					break
				}
			}
			m.cursor = 0
			return m, nil
		case "enter":
			if m.cursor < len(items) {
				return m, toggleFavoriteCmd(m.ctx, m.deps.Favorites, items[m.cursor].ID)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) viewCatalog() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Catálogo de productos"))
	b.WriteString("\n\n")
	if m.loading {
		b.WriteString(m.spin.View() + " Cargando productos...\n")
		return b.String()
	}

	b.WriteString(m.search.View())
	b.WriteString("  " + navStyle.Render("Recomendación: "+levelLabel(m.level)))
	b.WriteString("\n")
	if !m.remote {
		b.WriteString(warnStyle.Render("Mostrando productos de ejemplo") + "\n")
	}
	b.WriteString("\n")

	items := m.visible()
	if len(items) == 0 {
		b.WriteString("No se encontraron productos.\n")
	}
	for i, p := range items {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("› ")
		}
		star := " "
		if m.favorites[p.ID] {
			star = "♥"
		}
		fmt.Fprintf(&b, "%s%s %-32s %-10s $%-10.2f %s ★%.1f\n",
			prefix, star, p.Name, p.Brand, p.Price, catalog.StockLabel(p.Stock), p.Rating)
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓: mover • enter: favorito • tab: recomendación • F1 chat • F3 dashboard"))
	return b.String()
}
