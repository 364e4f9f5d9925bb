package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buynlarge/console/internal/apiclient"
	"github.com/buynlarge/console/internal/handler"
	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/model/dashboard"
	"github.com/buynlarge/console/internal/service/ai"
	"github.com/buynlarge/console/internal/service/auth"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
	chatService "github.com/buynlarge/console/internal/service/chat"
	"github.com/buynlarge/console/internal/service/chatapi"
	"github.com/buynlarge/console/internal/service/conversation"
	dashboardService "github.com/buynlarge/console/internal/service/dashboard"
	"github.com/buynlarge/console/internal/service/notify"
	"github.com/buynlarge/console/internal/service/session"
	"github.com/buynlarge/console/internal/storage"
)

func liveBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(handler.NewRouter(catalog.NewMemoryStore(catalog.Seed()), chatService.NewService(), ai.KeywordResponder{}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func deadBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func newModel(t *testing.T, backendURL string) (Model, Deps) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	creds, err := auth.NewCredentials(auth.DemoAccounts())
	require.NoError(t, err)

	api := apiclient.New(backendURL, nil)
	center := notify.NewCenter(time.Minute)
	deps := Deps{
		Gate:          auth.NewGate(ctx, store, creds),
		Chat:          conversation.New(session.NewIdentity(store), chatapi.New(api), center),
		Catalog:       catalogService.NewService(api, center),
		Favorites:     catalogService.NewFavorites(store),
		Dashboard:     dashboardService.NewService(api, center),
		Notifications: center,
	}
	m := New(ctx, deps)
	t.Cleanup(m.Close)
	return m, deps
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func loggedIn(t *testing.T, backendURL string) (Model, Deps) {
	t.Helper()
	m, deps := newModel(t, backendURL)
	require.True(t, deps.Gate.Login(context.Background(), "admin@buynlarge.com", "admin123"))
	return m, deps
}

func TestNavigationRedirectsToLoginWithoutUser(t *testing.T) {
	m, _ := newModel(t, deadBackend(t))

	for _, path := range []string{PathChat, PathCatalog, PathDashboard} {
		m, _ = update(t, m, NavigateMsg{Path: path})
		assert.Equal(t, viewLogin, m.view, path)
		assert.Equal(t, PathLogin, m.path)
	}
	assert.Contains(t, m.View(), "Iniciar sesión")
}

func TestUnknownPathShowsNotFound(t *testing.T) {
	m, _ := newModel(t, deadBackend(t))

	m, _ = update(t, m, NavigateMsg{Path: "/nope"})
	assert.Equal(t, viewNotFound, m.view)
	assert.Contains(t, m.View(), "404")
	assert.Contains(t, m.View(), "/nope")

	_, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Path: PathChat}, cmd())
}

func TestLoginFlow(t *testing.T) {
	m, deps := newModel(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathLogin})

	m.login.email.SetValue("admin@buynlarge.com")
	m.login.password.SetValue("wrong")
	m.login.focused = 1
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, m.login.pending)

	m, cmd = update(t, m, cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, viewLogin, m.view)
	assert.Empty(t, m.login.password.Value())
	assert.Contains(t, m.View(), "Credenciales incorrectas")

	m.login.password.SetValue("admin123")
	m, cmd = update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, cmd = update(t, m, cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Path: PathChat}, cmd())

	m, _ = update(t, m, NavigateMsg{Path: PathChat})
	assert.Equal(t, viewChat, m.view)
	u, ok := deps.Gate.CurrentUser()
	require.True(t, ok)
	assert.Contains(t, m.View(), u.Name)
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	m, _ := loggedIn(t, deadBackend(t))

	m, _ = update(t, m, NavigateMsg{Path: PathLogin})
	assert.Equal(t, viewChat, m.view)
}

func TestChatSubmitClearsInputAndRendersReply(t *testing.T) {
	m, deps := loggedIn(t, liveBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathChat})
	assert.Contains(t, m.View(), "Cargando conversación")

	m, _ = update(t, m, mountCmd(context.Background(), deps.Chat)())
	require.Equal(t, conversation.PhaseReady, m.snap.Phase)
	assert.Contains(t, m.View(), conversation.Greeting)

	m.input.SetValue("hola")
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, cmd())
	assert.Empty(t, m.chatErr)
	m, _ = update(t, m, snapshotMsg{snap: deps.Chat.Snapshot()})

	require.Len(t, m.snap.Messages, 3)
	assert.Equal(t, chat.SenderUser, m.snap.Messages[1].Sender)
	assert.Equal(t, chat.SenderBot, m.snap.Messages[2].Sender)
	view := m.View()
	assert.Contains(t, view, userLabel)
	assert.Contains(t, view, botLabel)
	assert.Contains(t, view, "hola")
}

func TestChatIgnoresEnterWhileSendingOrBlank(t *testing.T) {
	m, _ := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathChat})

	m.snap = conversation.Snapshot{Phase: conversation.PhaseReady, Sending: true}
	m.input.SetValue("otra pregunta")
	m, cmd := update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, "otra pregunta", m.input.Value())
	assert.Contains(t, m.View(), "escribiendo")

	m.snap.Sending = false
	m.input.SetValue("   ")
	_, cmd = update(t, m, key(tea.KeyEnter))
	assert.Nil(t, cmd)
}

func TestChatSendFailureShowsApologyAndToast(t *testing.T) {
	m, deps := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathChat})
	m, _ = update(t, m, mountCmd(context.Background(), deps.Chat)())

	m.input.SetValue("hola")
	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, snapshotMsg{snap: deps.Chat.Snapshot()})

	require.Len(t, m.snap.Messages, 3)
	assert.Equal(t, conversation.Apology, m.snap.Messages[2].Content)
	assert.Contains(t, m.View(), "No se pudo enviar el mensaje al asistente.")
}

func TestLeavingChatUnmounts(t *testing.T) {
	m, deps := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathChat})
	deps.Chat.Mount(context.Background())

	m, _ = update(t, m, NavigateMsg{Path: PathCatalog})
	assert.Equal(t, viewCatalog, m.view)
	assert.ErrorIs(t, deps.Chat.Submit(context.Background(), "hola"), conversation.ErrNotReady)
}

func TestCatalogListsAndTogglesFavorites(t *testing.T) {
	m, deps := loggedIn(t, liveBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathCatalog})
	assert.True(t, m.loading)

	m, _ = update(t, m, loadProductsCmd(context.Background(), deps.Catalog, deps.Favorites)())
	require.False(t, m.loading)
	require.True(t, m.remote)
	require.NotEmpty(t, m.products)
	first := m.visible()[0]
	assert.Contains(t, m.View(), first.Name)
	assert.NotContains(t, m.View(), "Mostrando productos de ejemplo")

	m, cmd := update(t, m, key(tea.KeyEnter))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.True(t, m.favorites[first.ID])

	ids, err := deps.Favorites.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, ids)
}

func TestCatalogSearchAndFilter(t *testing.T) {
	m, deps := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathCatalog})
	m, _ = update(t, m, loadProductsCmd(context.Background(), deps.Catalog, deps.Favorites)())
	assert.False(t, m.remote)
	assert.Contains(t, m.View(), "Mostrando productos de ejemplo")

	m.search.SetValue("zzz-no-match")
	assert.Empty(t, m.visible())
	assert.Contains(t, m.View(), "No se encontraron productos.")

	m.search.SetValue("")
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, catalog.RecommendationHigh, m.level)
	for _, p := range m.visible() {
		assert.Equal(t, catalog.RecommendationHigh, p.Recommendation)
	}
}

func TestDashboardFallbackAndFrameSwitch(t *testing.T) {
	m, deps := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathDashboard})
	assert.Contains(t, m.View(), "Cargando estadísticas")

	m, _ = update(t, m, loadStatsCmd(context.Background(), deps.Dashboard, m.frame)())
	require.True(t, m.statsReady)
	view := m.View()
	assert.Contains(t, view, "Mostrando datos de ejemplo")
	assert.Contains(t, view, "Samsung")

	m, cmd := update(t, m, key(tea.KeyTab))
	require.NotNil(t, cmd)
	assert.Equal(t, dashboard.TimeFrameQuarter, m.frame)
	assert.False(t, m.statsReady)

	// A late reply for the previous frame is dropped.
	m, _ = update(t, m, statsMsg{stats: dashboard.Examples(dashboard.TimeFrameMonth)})
	assert.False(t, m.statsReady)

	m, _ = update(t, m, cmd())
	assert.True(t, m.statsReady)
	assert.Equal(t, dashboard.TimeFrameQuarter, m.stats.Period)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	m, deps := loggedIn(t, deadBackend(t))
	m, _ = update(t, m, NavigateMsg{Path: PathCatalog})

	m, cmd := update(t, m, key(tea.KeyCtrlL))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, viewLogin, m.view)
	_, ok := deps.Gate.CurrentUser()
	assert.False(t, ok)
}

func TestRenderMessageFormatsClock(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 7, 0, 0, time.Local)
	out := renderMessage(chat.Message{Content: "hola", Sender: chat.SenderUser, Timestamp: at})
	assert.Contains(t, out, userLabel)
	assert.Contains(t, out, "09:07")
	assert.True(t, strings.HasSuffix(out, "hola\n"))

	out = renderMessage(chat.Message{Content: "¡Hola!", Sender: chat.SenderBot})
	assert.Contains(t, out, botLabel)
	assert.Contains(t, out, "--:--")
}
