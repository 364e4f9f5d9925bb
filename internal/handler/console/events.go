package console

import (
	"log"
	"net/http"
	"time"

	"github.com/buynlarge/console/internal/service/notify"
	"github.com/buynlarge/console/pkg/utils"
)

const eventsKeepAlive = 25 * time.Second

// handleEvents streams the client's notifications as server-sent events.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	c := clientFrom(r)
	ctx := r.Context()
	c.hold()
	defer c.release()

	queue := make(chan notify.Notification, 16)
	unsubscribe := c.center.Subscribe(func(n notify.Notification) {
		select {
		case queue <- n:
		default:
			log.Printf("[sse] dropping notification for slow client=%s", c.id)
		}
	})
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	if err := utils.SendSSEComment(w, flusher, "connected"); err != nil {
		return
	}

	ticker := time.NewTicker(eventsKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing notification stream for client=%s", c.id)
			return
		case n := <-queue:
			if err := utils.SendSSEEvent(w, flusher, "notification", n); err != nil {
				log.Printf("[sse] %v", err)
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "ping"); err != nil {
				return
			}
		}
	}
}
