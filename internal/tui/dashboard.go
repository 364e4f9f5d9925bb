package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/model/dashboard"
	dashboardService "github.com/buynlarge/console/internal/service/dashboard"
)

var frames = []dashboard.TimeFrame{
	dashboard.TimeFrameWeek,
	dashboard.TimeFrameMonth,
	dashboard.TimeFrameQuarter,
	dashboard.TimeFrameYear,
}

type statsMsg struct {
	stats  dashboard.Stats
	remote bool
}

func loadStatsCmd(ctx context.Context, svc *dashboardService.Service, frame dashboard.TimeFrame) tea.Cmd {
	return func() tea.Msg {
		stats, remote := svc.Load(ctx, frame)
		return statsMsg{stats: stats, remote: remote}
	}
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		// A reply for a frame the user already left is ignored.
		if msg.stats.Period != m.frame {
			return m, nil
		}
		m.stats, m.remote, m.statsReady = msg.stats, msg.remote, true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "left":
			step := 1
			if msg.String() == "left" {
				step = len(frames) - 1
			}
			for i, f := range frames {
				if f == m.frame {
					m.frame = frames[(i+step)%len(frames)]
					break
				}
			}
			m.statsReady = false
			return m, loadStatsCmd(m.ctx, m.deps.Dashboard, m.frame)
		}
	}
	return m, nil
}

func (m Model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("  ")
	labels := make([]string, 0, len(frames))
	for _, f := range frames {
		label := f.Label()
		if f == m.frame {
			label = activeStyle.Render(label)
		}
		labels = append(labels, label)
	}
	b.WriteString(navStyle.Render(strings.Join(labels, " · ")))
	b.WriteString("\n\n")

	if !m.statsReady {
		b.WriteString(m.spin.View() + " Cargando estadísticas...\n")
		return b.String()
	}
	if !m.remote {
		b.WriteString(warnStyle.Render("Mostrando datos de ejemplo") + "\n\n")
	}

	s := m.stats
	fmt.Fprintf(&b, "Unidades en inventario: %s   Valor total: $%s\n\n",
		dashboard.FormatNumber(s.TotalUnits()), dashboard.FormatNumber(s.TotalValue()))

	b.WriteString(titleStyle.Render("Inventario por marca") + "\n")
	peak := 0
	for _, v := range s.Inventory {
		if v.Value > peak {
			peak = v.Value
		}
	}
	for _, v := range s.Inventory {
		fmt.Fprintf(&b, "%-10s %s %d\n", v.Name, bar(v.Value, peak, 30), v.Value)
	}

	b.WriteString("\n" + titleStyle.Render("Categorías") + "\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "%-14s %5d uds  $%s\n", c.Categoria, c.Cantidad, dashboard.FormatNumber(c.Valor))
	}

	if len(s.PeriodSales) > 0 {
		b.WriteString("\n" + titleStyle.Render("Ventas del periodo") + "\n")
		for i, v := range s.PeriodSales {
			line := fmt.Sprintf("%-10s $%s", v.Name, dashboard.FormatNumber(v.Value))
			if i > 0 {
				change := dashboard.PercentChange(v.Value, s.PeriodSales[i-1].Value)
				style := successStyle
				if change < 0 {
					style = errorStyle
				}
				line += " " + style.Render(fmt.Sprintf("%+.1f%%", change))
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab/←/→: periodo • F1 chat • F2 productos"))
	return b.String()
}

func bar(value, peak, width int) string {
	if peak <= 0 {
		return ""
	}
	n := value * width / peak
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}
