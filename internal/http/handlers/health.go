package handlers

import (
	"net/http"
	"time"

	"github.com/wolfman30/naturesvirtue-bot/internal/catalog"
	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
)

// ServiceInfo is the static part of the operational surface.
type ServiceInfo struct {
	StartedAt          time.Time
	ModelID            string
	MessageLimit       int
	GroqConfigured     bool
	WhatsAppConfigured bool
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status              string `json:"status"`
	Uptime              int64  `json:"uptime"`
	Timestamp           string `json:"timestamp"`
	ActiveConversations int    `json:"activeConversations"`
	TotalProducts       int    `json:"totalProducts"`
	MessageLimit        int    `json:"messageLimit"`
	GroqConfigured      bool   `json:"groqConfigured"`
	WhatsAppConfigured  bool   `json:"whatsappConfigured"`
}

// HealthHandler reports liveness plus credential presence.
type HealthHandler struct {
	info    ServiceInfo
	store   *conversation.Store
	catalog *catalog.Catalog
	now     func() time.Time
}

func NewHealthHandler(info ServiceInfo, store *conversation.Store, cat *catalog.Catalog) *HealthHandler {
	return &HealthHandler{info: info, store: store, catalog: cat, now: time.Now}
}

// ServeHTTP handles GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:              "healthy",
		Uptime:              int64(now.Sub(h.info.StartedAt).Seconds()),
		Timestamp:           now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ActiveConversations: h.store.Count(),
		TotalProducts:       h.catalog.TotalProducts(),
		MessageLimit:        h.info.MessageLimit,
		GroqConfigured:      h.info.GroqConfigured,
		WhatsAppConfigured:  h.info.WhatsAppConfigured,
	})
}
