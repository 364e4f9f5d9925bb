package chatapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/buynlarge/console/internal/apiclient"
	"github.com/buynlarge/console/internal/id"
	"github.com/buynlarge/console/internal/model/chat"
)

// ErrEmptyReply is returned when the chatbot answers without response text.
var ErrEmptyReply = errors.New("chatbot returned an empty response")

// Client talks to the remote chatbot endpoints.
type Client struct {
	api   *apiclient.Client
	now   func() time.Time
	newID func() string
}

// New returns a chatbot client over api.
func New(api *apiclient.Client) *Client {
	return &Client{api: api, now: time.Now, newID: id.New}
}

// History loads the persisted turns of sessionID, reporting any failure.
func (c *Client) History(ctx context.Context, sessionID string) ([]chat.Message, error) {
	path := "/api/chatbot/conversations/" + url.PathEscape(sessionID) + "/"

	var resp chat.ConversationResponse
	if err := c.api.GetJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetch history for session %s: %w", sessionID, err)
	}

	messages := make([]chat.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, chat.Message{
			ID:        strconv.FormatInt(m.ID, 10),
			Content:   m.Content,
			Sender:    m.Sender,
			Timestamp: ParseTimestamp(m.Timestamp),
		})
	}
	return messages, nil
}

// FetchHistory is History with failures folded into an empty conversation:
// an unreachable history and a brand-new session look the same to callers.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) []chat.Message {
	messages, err := c.History(ctx, sessionID)
	if err != nil {
		log.Printf("[chatapi] history unavailable, starting empty: %v", err)
		return []chat.Message{}
	}
	return messages
}

// SendMessage posts text for sessionID and returns the bot reply stamped at
// receipt time. Every failure is returned to the caller.
func (c *Client) SendMessage(ctx context.Context, text, sessionID string) (chat.Message, error) {
	var resp chat.SendResponse
	req := chat.SendRequest{Message: text, SessionID: sessionID}
	if err := c.api.PostJSON(ctx, "/api/chatbot/", req, &resp); err != nil {
		log.Printf("[chatapi] send failed for session %s: %v", sessionID, err)
		return chat.Message{}, fmt.Errorf("send message: %w", err)
	}
	if strings.TrimSpace(resp.Response) == "" {
		return chat.Message{}, ErrEmptyReply
	}

	msgID := c.newID()
	if resp.MessageID != nil {
		msgID = strconv.FormatInt(*resp.MessageID, 10)
	}
	return chat.Message{
		ID:        msgID,
		Content:   resp.Response,
		Sender:    chat.SenderBot,
		Timestamp: c.now(),
	}, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp accepts the timestamp shapes the API emits (RFC 3339 and
// Django's naive ISO format). Unparseable input yields the zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
