package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/buynlarge/console/internal/id"
	"github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/service/notify"
)

const (
	// Greeting opens a conversation that has no history.
	Greeting = "¡Hola! Soy el asistente virtual de Buy n Large. ¿En qué puedo ayudarte hoy? Puedes preguntarme sobre nuestros productos, inventario o precios."
	// Apology replaces the bot reply when a send fails.
	Apology = "Lo siento, tuve un problema para procesar tu consulta. Por favor, intenta de nuevo más tarde."
)

var (
	ErrNotReady     = errors.New("conversation is not ready")
	ErrEmptyInput   = errors.New("message is empty")
	ErrSendInFlight = errors.New("a message is already being sent")
)

// Phase is the lifecycle position of a mounted conversation.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
)

func (p Phase) String() string {
	if p == PhaseReady {
		return "ready"
	}
	return "loading"
}

// Transport is the remote side of the conversation.
type Transport interface {
	FetchHistory(ctx context.Context, sessionID string) []chat.Message
	SendMessage(ctx context.Context, text, sessionID string) (chat.Message, error)
}

// SessionSource yields the durable conversation identity.
type SessionSource interface {
	GetOrCreate(ctx context.Context) string
	Reset(ctx context.Context) error
}

// Snapshot is a consistent copy of the state handed to surfaces.
type Snapshot struct {
	Phase     Phase          `json:"-"`
	SessionID string         `json:"sessionId"`
	Messages  []chat.Message `json:"messages"`
	Sending   bool           `json:"sending"`
	LastSend  *Send          `json:"lastSend,omitempty"`
}

// Option customises a State.
type Option func(*State)

// WithOnNewMessage registers a hook called for every message appended by Submit.
func WithOnNewMessage(fn func(chat.Message)) Option {
	return func(s *State) { s.onNewMessage = fn }
}

// WithClock replaces the time source used for local messages.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDs replaces the generator used for local message ids.
func WithIDs(newID func() string) Option {
	return func(s *State) { s.newID = newID }
}

// State is the in-memory, append-only log of the active conversation.
// Results of a fetch or send that resolve after Unmount, or after a newer
// Mount, are discarded.
type State struct {
	session   SessionSource
	transport Transport
	notifier  notify.Notifier

	greeting     string
	onNewMessage func(chat.Message)
	now          func() time.Time
	newID        func() string

	mu         sync.Mutex
	mounted    bool
	generation uint64
	phase      Phase
	sessionID  string
	messages   []chat.Message
	sending    bool
	sends      int
	lastSend   *Send
	subs       map[int]func(Snapshot)
	nextSub    int
}

// New builds an unmounted State.
func New(session SessionSource, transport Transport, notifier notify.Notifier, opts ...Option) *State {
	s := &State{
		session:   session,
		transport: transport,
		notifier:  notifier,
		greeting:  Greeting,
		now:       time.Now,
		newID:     id.New,
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount enters Loading, fetches the history of the session and enters Ready
// with either that history or a single greeting.
func (s *State) Mount(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mounted = true
	s.phase = PhaseLoading
	s.messages = nil
	s.sending = false
	s.lastSend = nil
	s.mu.Unlock()
	s.publish()

	sessionID := s.session.GetOrCreate(ctx)
	history := s.transport.FetchHistory(ctx, sessionID)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		log.Printf("[conversation] discarding stale history for session=%s", sessionID)
		return
	}
	s.sessionID = sessionID
	if len(history) > 0 {
		s.messages = append(make([]chat.Message, 0, len(history)+8), history...)
	} else {
		s.messages = []chat.Message{{
			ID:        s.newID(),
			Content:   s.greeting,
			Sender:    chat.SenderBot,
			Timestamp: s.now(),
		}}
	}
	s.phase = PhaseReady
	s.mu.Unlock()

	log.Printf("[conversation] ready session=%s history=%d", sessionID, len(history))
	s.publish()
}

// Unmount tears the view down; in-flight results will not be applied.
func (s *State) Unmount() {
	s.mu.Lock()
	s.generation++
	s.mounted = false
	s.sending = false
	s.mu.Unlock()
}

// Reset forgets the session identity and mounts a fresh conversation.
func (s *State) Reset(ctx context.Context) error {
	if err := s.session.Reset(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.Mount(ctx)
	return nil
}

// Submit appends text as a user message, sends it and appends the reply, or
// the apology plus a notification when the send fails. A send failure is not
// returned; the errors reported are the reasons the submit was rejected
// without touching the log.
func (s *State) Submit(ctx context.Context, text string) error {
	s.mu.Lock()
	switch {
	case !s.mounted || s.phase != PhaseReady:
		s.mu.Unlock()
		return ErrNotReady
	case strings.TrimSpace(text) == "":
		s.mu.Unlock()
		return ErrEmptyInput
	case s.sending:
		s.mu.Unlock()
		return ErrSendInFlight
	}

	gen := s.generation
	sessionID := s.sessionID
	userMsg := chat.Message{
		ID:        s.newID(),
		Content:   text,
		Sender:    chat.SenderUser,
		Timestamp: s.now(),
	}
	s.sends++
	send := newSend(s.sends, userMsg)
	s.messages = append(s.messages, userMsg)
	s.sending = true
	s.lastSend = send.copy()
	s.mu.Unlock()

	s.emit(userMsg)
	s.publish()

	reply, err := s.transport.SendMessage(ctx, text, sessionID)
	if err != nil {
		log.Printf("[conversation] send failed session=%s: %v", sessionID, err)
		reply = chat.Message{
			ID:        s.newID(),
			Content:   Apology,
			Sender:    chat.SenderBot,
			Timestamp: s.now(),
		}
		send.fail(reply, err)
	} else {
		send.deliver(reply)
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		log.Printf("[conversation] discarding reply for torn down session=%s", sessionID)
		return nil
	}
	s.messages = append(s.messages, reply)
	s.sending = false
	s.lastSend = send.copy()
	s.mu.Unlock()

	if err != nil && s.notifier != nil {
		s.notifier.Notify(notify.Notification{
			Level:       notify.LevelError,
			Title:       "Error",
			Description: "No se pudo enviar el mensaje al asistente.",
		})
	}
	s.emit(reply)
	s.publish()
	return nil
}

// Messages returns a copy of the log.
func (s *State) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Message(nil), s.messages...)
}

// Phase reports the lifecycle phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Sending reports whether a send is outstanding.
func (s *State) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Snapshot returns a consistent copy of the state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:     s.phase,
		SessionID: s.sessionID,
		Messages:  append([]chat.Message(nil), s.messages...),
		Sending:   s.sending,
	}
	if s.lastSend != nil {
		snap.LastSend = s.lastSend.copy()
	}
	return snap
}

// Subscribe registers fn to receive a snapshot after every change.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.nextSub
	s.nextSub++
	s.subs[key] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, key)
		s.mu.Unlock()
	}
}

func (s *State) publish() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s *State) emit(m chat.Message) {
	if s.onNewMessage != nil {
		s.onNewMessage(m)
	}
}
