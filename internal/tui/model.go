package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/dashboard"
	"github.com/buynlarge/console/internal/service/auth"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
	"github.com/buynlarge/console/internal/service/conversation"
	dashboardService "github.com/buynlarge/console/internal/service/dashboard"
	"github.com/buynlarge/console/internal/service/notify"
)

// Deps are the services a terminal session drives.
type Deps struct {
	Gate          *auth.Gate
	Chat          *conversation.State
	Catalog       *catalogService.Service
	Favorites     *catalogService.Favorites
	Dashboard     *dashboardService.Service
	Notifications *notify.Center
}

type view int

const (
	viewLogin view = iota
	viewChat
	viewCatalog
	viewDashboard
	viewNotFound
)

// Route paths, shared with the web console.
const (
	PathLogin     = "/login"
	PathChat      = "/"
	PathCatalog   = "/productos"
	PathDashboard = "/dashboard"
)

func routeFor(path string) view {
	switch path {
	case PathLogin:
		return viewLogin
	case PathChat:
		return viewChat
	case PathCatalog:
		return viewCatalog
	case PathDashboard:
		return viewDashboard
	default:
		return viewNotFound
	}
}

// NavigateMsg asks the program to show the page at Path.
type NavigateMsg struct{ Path string }

// Navigate returns a command that routes to path.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// Model is the root bubbletea model. It owns one view at a time and checks
// the auth gate on every navigation.
type Model struct {
	ctx    context.Context
	deps   Deps
	bridge *bridge
	now    func() time.Time

	view     view
	path     string
	width    int
	quitting bool

	login loginView

	input   textinput.Model
	spin    spinner.Model
	snap    conversation.Snapshot
	chatErr string

	search    textinput.Model
	products  []catalog.Product
	remote    bool
	loading   bool
	cursor    int
	level     catalog.Recommendation
	favorites map[int64]bool

	stats      dashboard.Stats
	frame      dashboard.TimeFrame
	statsReady bool
}

// New builds the root model. Close must be called once the program exits.
func New(ctx context.Context, deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "Escribe tu mensaje..."
	input.Prompt = "› "
	input.CharLimit = 2000
	input.Width = 60

	search := textinput.New()
	search.Placeholder = "Buscar productos..."
	search.Prompt = "🔍 "
	search.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		deps:      deps,
		bridge:    newBridge(deps.Chat, deps.Notifications),
		now:       time.Now,
		path:      PathChat,
		login:     newLoginView(),
		input:     input,
		spin:      sp,
		snap:      deps.Chat.Snapshot(),
		search:    search,
		frame:     dashboard.TimeFrameMonth,
		favorites: map[int64]bool{},
	}
}

// Close releases the service subscriptions and unmounts the conversation.
func (m Model) Close() {
	m.bridge.close()
	m.deps.Chat.Unmount()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(Navigate(PathChat), m.bridge.listen(m.deps.Chat), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case NavigateMsg:
		return m.navigate(msg.Path)

	case snapshotMsg:
		m.snap = msg.snap
		return m, m.bridge.listen(m.deps.Chat)

	case notificationMsg:
		return m, tea.Batch(m.bridge.listen(m.deps.Chat), expireAfter(m.deps.Notifications.TTL()))

	case expireMsg:
		return m, nil

	case loggedOutMsg:
		return m.navigate(PathLogin)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if m.view != viewLogin {
			if cmd, ok := m.globalKey(msg); ok {
				return m, cmd
			}
		}
	}

	switch m.view {
	case viewLogin:
		return m.updateLogin(msg)
	case viewChat:
		return m.updateChat(msg)
	case viewCatalog:
		return m.updateCatalog(msg)
	case viewDashboard:
		return m.updateDashboard(msg)
	default:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			return m, Navigate(PathChat)
		}
	}
	return m, nil
}

func (m Model) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "f1":
		return Navigate(PathChat), true
	case "f2":
		return Navigate(PathCatalog), true
	case "f3":
		return Navigate(PathDashboard), true
	case "ctrl+l":
		return logoutCmd(m.ctx, m.deps.Gate), true
	}
	return nil, false
}

// navigate enforces the gate and runs the enter/leave hooks of the views.
func (m Model) navigate(path string) (tea.Model, tea.Cmd) {
	next := routeFor(path)
	if next != viewLogin && next != viewNotFound {
		if _, err := m.deps.Gate.Require(); err != nil {
			next, path = viewLogin, PathLogin
		}
	}
	if next == viewLogin {
		if _, ok := m.deps.Gate.CurrentUser(); ok {
			next, path = viewChat, PathChat
		}
	}

	prev := m.view
	m.view, m.path = next, path
	if prev == viewChat && next != viewChat {
		m.deps.Chat.Unmount()
	}

	var cmds []tea.Cmd
	switch next {
	case viewLogin:
		cmds = append(cmds, m.login.focus())
	case viewChat:
		if prev != viewChat || m.snap.SessionID == "" {
			cmds = append(cmds, mountCmd(m.ctx, m.deps.Chat))
		}
		cmds = append(cmds, m.input.Focus())
	case viewCatalog:
		m.loading = true
		cmds = append(cmds, loadProductsCmd(m.ctx, m.deps.Catalog, m.deps.Favorites), m.search.Focus())
	case viewDashboard:
		m.statsReady = false
		cmds = append(cmds, loadStatsCmd(m.ctx, m.deps.Dashboard, m.frame))
	}
	return m, tea.Batch(cmds...)
}

func expireAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return expireMsg{} })
}

type loggedOutMsg struct{}

func logoutCmd(ctx context.Context, gate *auth.Gate) tea.Cmd {
	return func() tea.Msg {
		gate.Logout(ctx)
		return loggedOutMsg{}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.view {
	case viewLogin:
		b.WriteString(m.viewLogin())
	case viewChat:
		b.WriteString(m.viewChat())
	case viewCatalog:
		b.WriteString(m.viewCatalog())
	case viewDashboard:
		b.WriteString(m.viewDashboard())
	default:
		b.WriteString(titleStyle.Render("404"))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("La página %q no existe.\n", m.path))
		b.WriteString(helpStyle.Render("enter: volver al chat"))
	}

	if toasts := m.toasts(); toasts != "" {
		b.WriteString("\n\n")
		b.WriteString(toasts)
	}
	return b.String()
}

func (m Model) header() string {
	title := titleStyle.Render("Buy n Large · Consola")
	if m.view == viewLogin {
		return title
	}

	tabs := []struct {
		key, label string
		v          view
	}{
		{"F1", "Chat", viewChat},
		{"F2", "Productos", viewCatalog},
		{"F3", "Dashboard", viewDashboard},
	}
	parts := make([]string, 0, len(tabs)+1)
	for _, t := range tabs {
		label := t.key + " " + t.label
		if t.v == m.view {
			label = activeStyle.Render(label)
		}
		parts = append(parts, label)
	}
	if u, ok := m.deps.Gate.CurrentUser(); ok {
		parts = append(parts, fmt.Sprintf("%s (ctrl+l salir)", u.Name))
	}
	return title + "  " + navStyle.Render(strings.Join(parts, " │ "))
}

func (m Model) toasts() string {
	active := m.deps.Notifications.Active(m.now())
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		style := successStyle
		switch n.Level {
		case notify.LevelError:
			style = errorStyle
		case notify.LevelWarning:
			style = warnStyle
		case notify.LevelInfo:
			style = helpStyle
		}
		line := style.Render(n.Title)
		if n.Description != "" {
			line += "\n" + n.Description
		}
		lines = append(lines, toastStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}
