package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buynlarge/console/internal/service/conversation"
	"github.com/buynlarge/console/internal/service/notify"
)

type (
	snapshotMsg     struct{ snap conversation.Snapshot }
	notificationMsg struct{ n notify.Notification }
	expireMsg       struct{}
)

// bridge turns service callbacks into program messages. Callbacks never
// block: a pending chat wake-up already covers newer snapshots, and a full
// notification queue drops the overflow.
type bridge struct {
	chatWake chan struct{}
	notes    chan notify.Notification
	cancel   []func()
}

func newBridge(chat *conversation.State, center *notify.Center) *bridge {
	b := &bridge{
		chatWake: make(chan struct{}, 1),
		notes:    make(chan notify.Notification, 16),
	}
	b.cancel = append(b.cancel, chat.Subscribe(func(conversation.Snapshot) {
		select {
		case b.chatWake <- struct{}{}:
		default:
		}
	}))
	b.cancel = append(b.cancel, center.Subscribe(func(n notify.Notification) {
		select {
		case b.notes <- n:
		default:
		}
	}))
	return b
}

func (b *bridge) close() {
	for _, fn := range b.cancel {
		fn()
	}
}

func (b *bridge) listen(chat *conversation.State) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.chatWake:
			return snapshotMsg{snap: chat.Snapshot()}
		case n := <-b.notes:
			return notificationMsg{n: n}
		}
	}
}
