package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/naturesvirtue-bot/pkg/logging"
)

// maxWebhookBody bounds inbound payloads; Meta batches are far smaller.
const maxWebhookBody = 1 << 20

// WebhookHandler handles WhatsApp webhook verification and inbound events.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onEvent     func(WebhookEvent)
	logger      *logging.Logger
}

// NewWebhookHandler creates a new webhook handler. onEvent is called after the
// 200 acknowledgement has been written, so it must not touch the response.
// When appSecret is empty, signature verification is skipped.
func NewWebhookHandler(verifyToken, appSecret string, onEvent func(WebhookEvent)) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onEvent:     onEvent,
		logger:      logging.Default(),
	}
}

// WithLogger sets the logger used for rejected or unreadable payloads.
func (h *WebhookHandler) WithLogger(logger *logging.Logger) *WebhookHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// HandleVerification answers Meta's GET subscription challenge.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound acknowledges POSTed events immediately and hands them off.
// Processing outcome never changes the status code, so Meta does not retry.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if h.appSecret != "" {
		if !VerifySignature(h.appSecret, body, r.Header.Get("X-Hub-Signature-256")) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	// Undecodable payloads are still acknowledged; Meta would only redeliver them.
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Warn("discarding undecodable webhook payload", "error", err, "bytes", len(body))
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)

	if h.onEvent != nil {
		h.onEvent(event)
	}
}

// ParseWebhookEvent extracts the first message of the first change of the
// first entry. ok is false for status callbacks and other message-less events.
func ParseWebhookEvent(event WebhookEvent) (msg InboundMessage, ok bool) {
	if len(event.Entry) == 0 || len(event.Entry[0].Changes) == 0 {
		return InboundMessage{}, false
	}
	value := event.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return InboundMessage{}, false
	}
	m := value.Messages[0]

	msg = InboundMessage{
		SenderID:  m.From,
		MessageID: m.ID,
		Type:      m.Type,
		Timestamp: parseUnixSeconds(m.Timestamp),
	}
	if m.Text != nil {
		msg.Text = m.Text.Body
	}
	for _, c := range value.Contacts {
		if c.WaID == m.From {
			msg.ProfileName = c.Profile.Name
			break
		}
	}
	return msg, true
}

// parseUnixSeconds returns the zero time for empty or malformed values.
func parseUnixSeconds(raw string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) || len(signature) == len(prefix) {
		return false
	}
	sigHex := strings.ToLower(signature[len(prefix):])

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}
