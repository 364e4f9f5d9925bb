package chat

// SessionKey is the client-local storage key holding the conversation identity.
const SessionKey = "chatSessionId"

// APIMessage is a persisted turn as the chatbot API serialises it.
type APIMessage struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Sender    Sender `json:"sender"`
	Timestamp string `json:"timestamp"`
}

// ConversationResponse is the body of GET /api/chatbot/conversations/{sessionId}/.
type ConversationResponse struct {
	ID        int64        `json:"id"`
	SessionID string       `json:"session_id"`
	Messages  []APIMessage `json:"messages"`
	CreatedAt string       `json:"created_at"`
}

// SendRequest is the body of POST /api/chatbot/.
type SendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// SendResponse is the reply of POST /api/chatbot/.
type SendResponse struct {
	Response  string `json:"response"`
	MessageID *int64 `json:"message_id,omitempty"`
}
