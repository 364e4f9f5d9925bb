package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/buynlarge/console/internal/model/chat"
	aiService "github.com/buynlarge/console/internal/service/ai"
	chatService "github.com/buynlarge/console/internal/service/chat"
	"github.com/buynlarge/console/pkg/utils"
)

// Handler serves the chatbot API.
type Handler struct {
	chatSvc   *chatService.Service
	responder aiService.Responder
}

// New creates the chatbot handler.
func New(chatSvc *chatService.Service, responder aiService.Responder) *Handler {
	return &Handler{
		chatSvc:   chatSvc,
		responder: responder,
	}
}

// RegisterRoutes mounts the chatbot routes under r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chatbot/", h.handleSend)
	r.Post("/chatbot/stream/", h.handleStream)
	r.Get("/chatbot/conversations/{sessionID}/", h.handleConversation)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	payload, history, ok := h.acceptMessage(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	reply, err := h.responder.Reply(ctx, payload.SessionID, history, payload.Message)
	if err != nil {
		log.Printf("[chatbot] reply failed for session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	botMsg, err := h.saveExchange(ctx, payload, reply)
	if err != nil {
		log.Printf("[chatbot] store reply failed for session=%s: %v", payload.SessionID, err)
		utils.RespondError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chat.SendResponse{Response: botMsg.Content, MessageID: &botMsg.ID})
}

// acceptMessage validates a send request and loads the prior transcript. It
// writes the error response itself. Nothing is stored until a reply exists.
func (h *Handler) acceptMessage(w http.ResponseWriter, r *http.Request) (chat.SendRequest, []chat.APIMessage, bool) {
	var payload chat.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return payload, nil, false
	}

	if strings.TrimSpace(payload.Message) == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return payload, nil, false
	}
	if strings.TrimSpace(payload.SessionID) == "" {
		utils.RespondError(w, http.StatusBadRequest, "session_id is required")
		return payload, nil, false
	}

	ctx := r.Context()
	history, err := h.chatSvc.LoadTranscript(ctx, payload.SessionID)
	if err != nil && !errors.Is(err, chatService.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return payload, nil, false
	}
	return payload, history, true
}

// saveExchange stores the user turn together with its reply and returns the
// stored reply.
func (h *Handler) saveExchange(ctx context.Context, payload chat.SendRequest, reply string) (chat.APIMessage, error) {
	stored, err := h.chatSvc.SaveMessages(ctx, payload.SessionID,
		chatService.Turn{Sender: chat.SenderUser, Content: payload.Message},
		chatService.Turn{Sender: chat.SenderBot, Content: reply},
	)
	if err != nil {
		return chat.APIMessage{}, err
	}
	return stored[1], nil
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conv, err := h.chatSvc.GetConversation(r.Context(), sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, conv)
}
