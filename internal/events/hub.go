// Package events fans UI-facing events out to connected clients. The
// assistant publishes navigation requests, selection prompts and transcript
// updates here; the websocket endpoint drains a subscription per client.
package events

import (
	"log/slog"
	"sync"
)

const (
	TypeNavigate         = "navigate"
	TypeSelectionRequest = "selection_request"
	TypeMessage          = "message"
)

type Event struct {
	Type           string            `json:"type"`
	ConversationID string            `json:"conversationId,omitempty"`
	Screen         string            `json:"screen,omitempty"`
	Params         map[string]string `json:"params,omitempty"`
	Prompt         string            `json:"prompt,omitempty"`
	Purpose        string            `json:"purpose,omitempty"`
	Role           string            `json:"role,omitempty"`
	Content        string            `json:"content,omitempty"`
}

type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	logger      *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: map[chan Event]struct{}{},
		logger:      logger,
	}
}

// Subscribe registers a new client. The returned cancel func must be called
// when the client goes away; it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	channel := make(chan Event, 32)
	h.mu.Lock()
	h.subscribers[channel] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[channel]; ok {
			delete(h.subscribers, channel)
			close(channel)
		}
		h.mu.Unlock()
	}
	return channel, cancel
}

// publish delivers to every subscriber without blocking. A slow client's
// events are dropped rather than stalling the publisher.
func (h *Hub) publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel := range h.subscribers {
		select {
		case channel <- event:
		default:
			h.logger.Warn("event dropped for slow subscriber", "type", event.Type)
		}
	}
}

func (h *Hub) PublishNavigate(screen string, params map[string]string) {
	h.publish(Event{Type: TypeNavigate, Screen: screen, Params: params})
}

func (h *Hub) PublishSelectionRequest(prompt, purpose string) {
	h.publish(Event{Type: TypeSelectionRequest, Prompt: prompt, Purpose: purpose})
}

func (h *Hub) PublishMessage(conversationID, role, content string) {
	h.publish(Event{Type: TypeMessage, ConversationID: conversationID, Role: role, Content: content})
}
