package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/naturesvirtue-bot/internal/conversation"
	"github.com/wolfman30/naturesvirtue-bot/internal/messaging"
	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// ConversationsHandler exposes the in-memory conversation registry to operators.
type ConversationsHandler struct {
	store  *conversation.Store
	logger *logging.Logger
}

func NewConversationsHandler(store *conversation.Store, logger *logging.Logger) *ConversationsHandler {
	if store == nil {
		panic("handlers: conversation store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConversationsHandler{store: store, logger: logger}
}

// ConversationsResponse is the body of GET /conversations.
type ConversationsResponse struct {
	Total         int                    `json:"total"`
	Conversations []conversation.Summary `json:"conversations"`
}

// DeleteResponse is the body of DELETE /conversations/{phone}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// List returns every active conversation, oldest first.
// GET /conversations
func (h *ConversationsHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.SnapshotAll()
	writeJSON(w, http.StatusOK, ConversationsResponse{
		Total:         len(snapshot),
		Conversations: snapshot,
	})
}

// Delete clears one sender's history and language.
// DELETE /conversations/{phone}
func (h *ConversationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(chi.URLParam(r, "phone"))
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, DeleteResponse{Success: false, Message: "missing phone"})
		return
	}

	err := h.store.Delete(phone)
	if errors.Is(err, conversation.ErrNotFound) {
		// Operators often paste "+94 77 ..." while WhatsApp ids are digits only.
		if normalized := messaging.NormalizeSender(phone); normalized != phone {
			err = h.store.Delete(normalized)
		}
	}
	if errors.Is(err, conversation.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, DeleteResponse{Success: false, Message: "Conversation not found"})
		return
	}

	h.logger.Info("conversation cleared", "sender", phone)
	writeJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Conversation with %s cleared", phone),
	})
}
