package handlers

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-service/internal/api/dto"
	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/internal/service"
	"github.com/civicdesk/complaint-service/internal/store"
)

const liveHeartbeatInterval = 30 * time.Second

// LiveHandler streams complaint snapshots over server-sent events. The store
// pushes a full snapshot after every mutation, so each SSE frame replaces the
// client's entire view; there is no delta protocol to keep in sync.
type LiveHandler struct {
	service   *service.ComplaintService
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewLiveHandler constructs handler.
func NewLiveHandler(complaintService *service.ComplaintService, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{service: complaintService, logger: logger, heartbeat: liveHeartbeatInterval}
}

// Feed GET /api/live. Sends the current snapshot immediately, then one frame
// per store mutation until the client disconnects.
func (h *LiveHandler) Feed(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	initial, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}

	updates := make(chan store.Snapshot, 8)
	unsubscribe := h.service.Subscribe(func(snapshot store.Snapshot) {
		select {
		case updates <- snapshot:
		default:
			// Slow consumer: drop this frame, the next mutation resends
			// the full state anyway.
		}
	})

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		h.stream(w, initial, updates)
	}))
	return nil
}

// stream writes frames until the client goes away. Heartbeat comments bound
// how long a disconnected feed can linger when the store is quiet.
func (h *LiveHandler) stream(w *bufio.Writer, initial []domain.Complaint, updates <-chan store.Snapshot) {
	if err := writeSnapshotFrame(w, initial); err != nil {
		return
	}
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case snapshot := <-updates:
			if err := writeSnapshotFrame(w, snapshot); err != nil {
				h.logger.Debug("live feed client disconnected", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := writeHeartbeat(w); err != nil {
				h.logger.Debug("live feed client disconnected", zap.Error(err))
				return
			}
		}
	}
}

func writeSnapshotFrame(w *bufio.Writer, complaints []domain.Complaint) error {
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, dto.FromComplaint(&complaints[i]))
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if _, err := w.WriteString("event: snapshot\ndata: "); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	if _, err := w.WriteString("\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

func writeHeartbeat(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}
