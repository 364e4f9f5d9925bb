package console

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/service/conversation"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingFrame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type snapshotFrame struct {
	Phase     string             `json:"phase"`
	SessionID string             `json:"sessionId"`
	Messages  []chat.Message     `json:"messages"`
	Sending   bool               `json:"sending"`
	LastSend  *conversation.Send `json:"lastSend,omitempty"`
}

func toSnapshotFrame(s conversation.Snapshot) snapshotFrame {
	messages := s.Messages
	if messages == nil {
		messages = []chat.Message{}
	}
	return snapshotFrame{
		Phase:     s.Phase.String(),
		SessionID: s.SessionID,
		Messages:  messages,
		Sending:   s.Sending,
		LastSend:  s.LastSend,
	}
}

// socket serialises writes; snapshots are published from the goroutine that
// resolves a send while the read loop may be writing errors.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) write(frameType string, data interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	msg := outgoingFrame{Type: frameType, Data: data, Timestamp: time.Now().Unix()}
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", frameType, err)
	}
}

func (s *socket) ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (h *Handler) handleChatSocket(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] chat connected client=%s", c.id)
	sock := &socket{conn: conn}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go pingLoop(ctx, sock)

	unsubscribe := c.chat.Subscribe(func(s conversation.Snapshot) {
		sock.write("snapshot", toSnapshotFrame(s))
	})
	defer unsubscribe()

	c.attach(ctx)
	defer c.detach()
	sock.write("snapshot", toSnapshotFrame(c.chat.Snapshot()))

	// Sends outlive the socket that started them; the conversation state
	// decides whether their result still applies.
	sendCtx := context.WithoutCancel(ctx)

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				sock.write("error", map[string]string{"message": "invalid frame"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		switch frame.Type {
		case "submit":
			h.submit(sendCtx, c, sock, frame.Text)
		case "reset":
			go func() {
				if err := c.chat.Reset(sendCtx); err != nil {
					sock.write("error", map[string]string{"message": err.Error()})
				}
			}()
		default:
			sock.write("error", map[string]string{"message": "unsupported frame type: " + frame.Type})
		}
	}
}

// submit starts a send without blocking the read loop, so a second submit
// while one is outstanding is answered with an error frame.
func (h *Handler) submit(ctx context.Context, c *client, sock *socket, text string) {
	started := make(chan error, 1)
	unsubscribe := c.chat.Subscribe(func(s conversation.Snapshot) {
		if s.Sending {
			select {
			case started <- nil:
			default:
			}
		}
	})

	go func() {
		err := c.chat.Submit(ctx, text)
		select {
		case started <- err:
		default:
		}
	}()

	err := <-started
	unsubscribe()
	if err != nil {
		sock.write("error", map[string]string{"message": err.Error()})
	}
}

func pingLoop(ctx context.Context, sock *socket) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sock.ping(); err != nil {
				return
			}
		}
	}
}
