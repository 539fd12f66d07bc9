package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"tender-reporter/internal/worker"

	"github.com/gorilla/websocket"
)

type JobUpdate struct {
	Type    string `json:"type"` // "job_update"
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Seller  string `json:"seller,omitempty"`
	Pages   int    `json:"pages,omitempty"`
	FileKey string `json:"file_key,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Hub fans report job lifecycle updates out to connected dashboards.
type Hub struct {
	dashboards map[*websocket.Conn]bool
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		dashboards: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dashboards[conn] = true
	slog.Info("Dashboard Connected", "total_connections", len(h.dashboards))
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.dashboards[conn]; ok {
		delete(h.dashboards, conn)
		conn.Close()
		slog.Info("Dashboard Disconnected", "total_connections", len(h.dashboards))
	}
}

// Notify satisfies worker.Notifier and pushes the job state to dashboards.
func (h *Hub) Notify(job *worker.ReportJob) {
	update := JobUpdate{
		Type:    "job_update",
		JobID:   job.ID,
		Status:  string(job.Status),
		Seller:  job.Request.SellerName,
		Pages:   job.Pages,
		FileKey: job.FileKey,
	}
	if job.Error != nil {
		update.Error = job.Error.Error()
	}
	h.Broadcast(update)
}

func (h *Hub) Broadcast(update JobUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	payload, _ := json.Marshal(update)
	for conn := range h.dashboards {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			slog.Error("Broadcast failed", "error", err)
			conn.Close()
			delete(h.dashboards, conn)
		}
	}
}
