package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/service/auth"
)

type loginView struct {
	email    textinput.Model
	password textinput.Model
	focused  int
	pending  bool
}

type loginResultMsg struct{ ok bool }

func newLoginView() loginView {
	email := textinput.New()
	email.Placeholder = "correo@buynlarge.com"
	email.Prompt = "Correo:     "
	email.Width = 40

	password := textinput.New()
	password.Placeholder = "contraseña"
	password.Prompt = "Contraseña: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.Width = 40

	return loginView{email: email, password: password}
}

func (l *loginView) focus() tea.Cmd {
	if l.focused == 1 {
		l.email.Blur()
		return l.password.Focus()
	}
	l.password.Blur()
	return l.email.Focus()
}

func loginCmd(ctx context.Context, gate *auth.Gate, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginResultMsg{ok: gate.Login(ctx, email, password)}
	}
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.login.pending = false
		if !msg.ok {
			m.login.password.Reset()
			return m, nil
		}
		m.login.email.Reset()
		m.login.password.Reset()
		m.login.focused = 0
		return m, Navigate(PathChat)

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.login.focused = 1 - m.login.focused
			return m, m.login.focus()
		case "enter":
			if m.login.pending {
				return m, nil
			}
			if m.login.focused == 0 {
				m.login.focused = 1
				return m, m.login.focus()
			}
			m.login.pending = true
			email := strings.TrimSpace(m.login.email.Value())
			return m, loginCmd(m.ctx, m.deps.Gate, email, m.login.password.Value())
		}
	}

	var cmd tea.Cmd
	if m.login.focused == 0 {
		m.login.email, cmd = m.login.email.Update(msg)
	} else {
		m.login.password, cmd = m.login.password.Update(msg)
	}
	return m, cmd
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Iniciar sesión"))
	b.WriteString("\n\n")
	b.WriteString(m.login.email.View())
	b.WriteString("\n")
	b.WriteString(m.login.password.View())
	b.WriteString("\n\n")
	if m.login.pending {
		b.WriteString(m.spin.View() + " Verificando...\n")
	} else if msg := m.deps.Gate.Err(); msg != "" {
		b.WriteString(errorStyle.Render(msg) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: cambiar campo • enter: entrar • ctrl+c: salir"))
	return b.String()
}
