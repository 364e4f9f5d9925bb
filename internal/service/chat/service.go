package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/buynlarge/console/internal/model/chat"
)

// TimestampLayout matches the timestamps the chatbot API has always emitted.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrMessageRequired = errors.New("message is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSender   = errors.New("unknown sender")
)

type conversation struct {
	id        int64
	createdAt time.Time
	messages  []chat.APIMessage
}

// Service keeps chatbot conversations in memory, keyed by client session id.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	nextConvID    int64
	nextMsgID     int64
	now           func() time.Time
}

// NewService bootstraps an empty conversation store.
func NewService() *Service {
	return &Service{
		conversations: make(map[string]*conversation),
		now:           time.Now,
	}
}

// Turn is one message to store.
type Turn struct {
	Sender  chat.Sender
	Content string
}

// SaveMessages appends turns to the conversation of sessionID, opening the
// conversation on first use. Either every turn is stored or none is.
func (s *Service) SaveMessages(_ context.Context, sessionID string, turns ...Turn) ([]chat.APIMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	for _, t := range turns {
		if !t.Sender.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSender, t.Sender)
		}
		if strings.TrimSpace(t.Content) == "" {
			return nil, ErrMessageRequired
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	conv, ok := s.conversations[sessionID]
	if !ok {
		s.nextConvID++
		conv = &conversation{id: s.nextConvID, createdAt: now, messages: make([]chat.APIMessage, 0, 16)}
		s.conversations[sessionID] = conv
	}

	stored := make([]chat.APIMessage, 0, len(turns))
	for _, t := range turns {
		s.nextMsgID++
		msg := chat.APIMessage{
			ID:        s.nextMsgID,
			Content:   t.Content,
			Sender:    t.Sender,
			Timestamp: now.Format(TimestampLayout),
		}
		conv.messages = append(conv.messages, msg)
		stored = append(stored, msg)
	}
	return stored, nil
}

// LoadTranscript returns a copy of the stored turns of sessionID.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.APIMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.APIMessage, len(conv.messages))
	copy(copied, conv.messages)
	return copied, nil
}

// GetConversation returns the conversation of sessionID as served by the API.
func (s *Service) GetConversation(ctx context.Context, sessionID string) (chat.ConversationResponse, error) {
	messages, err := s.LoadTranscript(ctx, sessionID)
	if err != nil {
		return chat.ConversationResponse{}, err
	}

	s.mu.RLock()
	conv := s.conversations[sessionID]
	resp := chat.ConversationResponse{
		ID:        conv.id,
		SessionID: sessionID,
		Messages:  messages,
		CreatedAt: conv.createdAt.Format(TimestampLayout),
	}
	s.mu.RUnlock()
	return resp, nil
}
