package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const streamBuffer = 16

type Handler struct {
	bus *Bus
}

func NewHandler(bus *Bus) *Handler {
	return &Handler{bus: bus}
}

type toast struct {
	Message string `json:"message"`
	Event
}

// Stream forwards check-in and check-out events as server-sent events. A
// slow client loses events rather than stalling publishers.
func (h *Handler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events := make(chan Event, streamBuffer)

	unsubscribe := h.bus.Subscribe(func(ev Event) {
		if ev.Kind == KindNone {
			return
		}
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			c.SSEvent(string(ev.Kind), toast{Message: Message(ev), Event: ev})
			c.Writer.Flush()
		}
	}
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/notifications/stream", h.Stream)
}
