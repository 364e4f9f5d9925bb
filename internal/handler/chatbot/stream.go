package chatbot

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/buynlarge/console/internal/model/chat"
	aiService "github.com/buynlarge/console/internal/service/ai"
	"github.com/buynlarge/console/pkg/utils"
)

// StreamEvent is the data of every event on the streaming endpoint.
type StreamEvent struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content,omitempty"`
	MessageID *int64 `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleStream answers like handleSend but over server-sent events:
// start, zero or more delta, message, end. Failures after the stream began
// are reported as an error event.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	payload, history, ok := h.acceptMessage(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sid := payload.SessionID
	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	h.sendSSE(w, flusher, "start", StreamEvent{SessionID: sid})

	content, err := h.generate(ctx, w, flusher, payload, history)
	if err == nil && strings.TrimSpace(content) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		log.Printf("[chatbot] stream failed for session=%s: %v", sid, err)
		h.sendSSE(w, flusher, "error", StreamEvent{SessionID: sid, Error: "assistant unavailable"})
		return
	}

	botMsg, err := h.saveExchange(ctx, payload, content)
	if err != nil {
		log.Printf("[chatbot] store streamed reply failed for session=%s: %v", sid, err)
		h.sendSSE(w, flusher, "error", StreamEvent{SessionID: sid, Error: "assistant unavailable"})
		return
	}

	h.sendSSE(w, flusher, "message", StreamEvent{SessionID: sid, Content: botMsg.Content, MessageID: &botMsg.ID})
	h.sendSSE(w, flusher, "end", StreamEvent{SessionID: sid})
	log.Printf("[chatbot] completed streamed reply for session=%s", sid)
}

// generate forwards chunks as delta events when the responder streams and
// returns the complete reply.
func (h *Handler) generate(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, payload chat.SendRequest, history []chat.APIMessage) (string, error) {
	streamer, ok := h.responder.(aiService.Streamer)
	if !ok {
		return h.responder.Reply(ctx, payload.SessionID, history, payload.Message)
	}

	stream, err := streamer.Stream(ctx, payload.SessionID, history, payload.Message)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	chunks := make([]*schema.Message, 0, 8)
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", recvErr
		}
		if chunk == nil {
			continue
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			h.sendSSE(w, flusher, "delta", StreamEvent{SessionID: payload.SessionID, Content: chunk.Content})
		}
	}
	if len(chunks) == 0 {
		return "", nil
	}

	response, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, event string, data StreamEvent) {
	if err := utils.SendSSEEvent(w, flusher, event, data); err != nil {
		log.Printf("[chatbot] %v", err)
	}
}
