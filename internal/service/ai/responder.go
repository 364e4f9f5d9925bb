package ai

import (
	"context"
	"log"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/buynlarge/console/internal/model/chat"
)

// Responder produces the assistant reply to text given the prior turns of a
// conversation.
type Responder interface {
	Reply(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (string, error)
}

// Streamer is implemented by responders that can emit the reply in chunks.
type Streamer interface {
	Stream(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (*schema.StreamReader[*schema.Message], error)
}

type fallbackResponder struct {
	primary  Responder
	fallback Responder
}

// WithFallback answers with primary, switching to fallback when primary
// errors or returns a blank reply.
func WithFallback(primary, fallback Responder) Responder {
	return &fallbackResponder{primary: primary, fallback: fallback}
}

func (r *fallbackResponder) Reply(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (string, error) {
	reply, err := r.primary.Reply(ctx, sessionID, history, text)
	if err == nil && strings.TrimSpace(reply) != "" {
		return reply, nil
	}
	if err != nil {
		log.Printf("[ai] primary responder failed for session=%s, using fallback: %v", sessionID, err)
	}
	return r.fallback.Reply(ctx, sessionID, history, text)
}

// Stream streams from primary when it can; otherwise the reply of Reply is
// delivered as a single chunk.
func (r *fallbackResponder) Stream(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (*schema.StreamReader[*schema.Message], error) {
	if s, ok := r.primary.(Streamer); ok {
		stream, err := s.Stream(ctx, sessionID, history, text)
		if err == nil {
			return stream, nil
		}
		log.Printf("[ai] primary stream failed for session=%s, using fallback: %v", sessionID, err)
	}

	reply, err := r.Reply(ctx, sessionID, history, text)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage(reply, nil)}), nil
}
