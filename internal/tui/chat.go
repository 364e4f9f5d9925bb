package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/service/conversation"
)

const (
	userLabel = "Tú"
	botLabel  = "Asistente BnL"
)

type (
	mountedMsg      struct{}
	submitResultMsg struct{ err error }
)

func mountCmd(ctx context.Context, state *conversation.State) tea.Cmd {
	return func() tea.Msg {
		state.Mount(ctx)
		return mountedMsg{}
	}
}

func submitCmd(ctx context.Context, state *conversation.State, text string) tea.Cmd {
	return func() tea.Msg {
		return submitResultMsg{err: state.Submit(ctx, text)}
	}
}

func (m Model) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountedMsg:
		m.snap = m.deps.Chat.Snapshot()
		return m, nil

	case submitResultMsg:
		m.chatErr = ""
		if errors.Is(msg.err, conversation.ErrNotReady) || errors.Is(msg.err, conversation.ErrSendInFlight) {
			m.chatErr = msg.err.Error()
		}
		return m, nil

	case resetResultMsg:
		m.chatErr = ""
		if msg.err != nil {
			m.chatErr = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" || m.snap.Sending || m.snap.Phase != conversation.PhaseReady {
				return m, nil
			}
			m.input.Reset()
			m.chatErr = ""
			return m, submitCmd(m.ctx, m.deps.Chat, text)
		case "ctrl+r":
			return m, resetCmd(m.ctx, m.deps.Chat)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

type resetResultMsg struct{ err error }

func resetCmd(ctx context.Context, state *conversation.State) tea.Cmd {
	return func() tea.Msg {
		return resetResultMsg{err: state.Reset(ctx)}
	}
}

func (m Model) viewChat() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Asistente de ventas"))
	b.WriteString("\n\n")

	if m.snap.Phase != conversation.PhaseReady {
		b.WriteString(m.spin.View() + " Cargando conversación...\n")
		return b.String()
	}

	for _, msg := range m.snap.Messages {
		b.WriteString(renderMessage(msg))
		b.WriteString("\n")
	}
	if m.snap.Sending {
		b.WriteString(botStyle.Render(botLabel) + " " + m.spin.View() + " escribiendo...\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.chatErr != "" {
		b.WriteString(errorStyle.Render(m.chatErr) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: enviar • ctrl+r: nueva conversación • F2 productos • F3 dashboard • ctrl+c salir"))
	return b.String()
}

func renderMessage(msg chat.Message) string {
	label := botStyle.Render(botLabel)
	if msg.Sender == chat.SenderUser {
		label = userStyle.Render(userLabel)
	}
	stamp := "--:--"
	if !msg.Timestamp.IsZero() {
		stamp = msg.Timestamp.Local().Format("15:04")
	}
	return label + " " + timeStyle.Render(stamp) + "\n" + msg.Content + "\n"
}
