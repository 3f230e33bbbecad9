package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/docfolio/docfolio/internal/assisterr"
	"github.com/docfolio/docfolio/internal/store"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

func (r *router) handleConversations(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var payload createConversationRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	conversation, err := r.deps.Store.CreateConversation(req.Context(), payload.Title)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":              conversation.ID,
		"title":           conversation.Title,
		"created_at_unix": conversation.CreatedAt.Unix(),
	})
}

type messageRequest struct {
	ConversationID     string `json:"conversation_id"`
	Text               string `json:"text"`
	AttachedDocumentID string `json:"attached_document_id"`
}

func (r *router) handleMessages(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var payload messageRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if strings.TrimSpace(payload.ConversationID) == "" || strings.TrimSpace(payload.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "conversation_id and text are required"})
		return
	}

	outcome, err := r.deps.Assistant.HandleMessage(req.Context(), payload.ConversationID, payload.Text, payload.AttachedDocumentID)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	response := map[string]any{
		"reply":   outcome.Reply,
		"pending": outcome.Pending,
	}
	if outcome.Pending {
		response["prompt"] = outcome.Prompt
	}
	if outcome.Executed {
		response["executed"] = true
		response["success"] = outcome.Result.OK
		response["outcome"] = outcome.Result.Message
	}
	if outcome.Rejected != "" {
		response["rejected"] = outcome.Rejected
	}
	writeJSON(w, http.StatusOK, response)
}

type confirmRequest struct {
	ConversationID string `json:"conversation_id"`
}

func (r *router) handleConfirm(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var payload confirmRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	result, err := r.deps.Assistant.Confirm(req.Context(), payload.ConversationID)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": result.OK,
		"outcome": result.Message,
	})
}

func (r *router) handleCancel(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	var payload confirmRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := r.deps.Assistant.Cancel(req.Context(), payload.ConversationID); err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (r *router) handleTranscript(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	conversationID := strings.TrimSpace(req.URL.Query().Get("conversation_id"))
	if conversationID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "conversation_id query parameter is required"})
		return
	}
	limit := 0
	if rawLimit := req.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	if _, err := r.deps.Store.LookupConversation(req.Context(), conversationID); err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	messages, err := r.deps.Store.ListMessages(req.Context(), conversationID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	payload := make([]map[string]any, 0, len(messages))
	for _, message := range messages {
		payload = append(payload, messageToMap(message))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": payload,
		"count": len(payload),
	})
}

func messageToMap(message store.Message) map[string]any {
	return map[string]any{
		"id":                   message.ID,
		"role":                 message.Role,
		"content":              message.Content,
		"attached_document_id": message.AttachedDocumentID,
		"created_at_unix":      message.CreatedAt.Unix(),
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, assisterr.ErrConversationGone), errors.Is(err, assisterr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assisterr.ErrTurnInFlight),
		errors.Is(err, assisterr.ErrPendingAction),
		errors.Is(err, assisterr.ErrNoPendingAction):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
