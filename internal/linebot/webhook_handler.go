package linebot

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nattapongw/fieldservice/internal/transport"
)

// LINE webhook bodies are tiny; anything past this is not a webhook.
const maxWebhookBody = 1 << 20

// WebhookHandler terminates the LINE webhook. It verifies the
// signature over the raw body, queues the events and acknowledges
// immediately; the actual work happens on the dispatcher workers.
// Replies use plain text, not the API's JSON envelope, because the
// caller is the LINE platform rather than a UI.
type WebhookHandler struct {
	*transport.BaseHandler
	channelSecret string
	dispatcher    *Dispatcher
	events        *prometheus.CounterVec
	logger        *slog.Logger
}

func NewWebhookHandler(base *transport.BaseHandler, channelSecret string, dispatcher *Dispatcher, events *prometheus.CounterVec, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:   base,
		channelSecret: channelSecret,
		dispatcher:    dispatcher,
		events:        events,
		logger:        logger,
	}
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		h.writeText(w, http.StatusBadRequest, "bad request")
		return
	}

	signature := r.Header.Get("x-line-signature")
	if !VerifySignature(h.channelSecret, signature, body) {
		h.logger.Warn("webhook signature rejected", "remote_addr", r.RemoteAddr)
		h.writeText(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warn("webhook payload rejected", "error", err)
		h.writeText(w, http.StatusBadRequest, "invalid payload")
		return
	}

	for _, event := range req.Events {
		outcome := "queued"
		if err := h.dispatcher.Enqueue(event); err != nil {
			outcome = "dropped"
		}
		if h.events != nil {
			h.events.WithLabelValues(event.Type, outcome).Inc()
		}
	}

	h.writeText(w, http.StatusOK, "OK")
}

func (h *WebhookHandler) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Error("failed to write webhook response", "error", err)
	}
}
