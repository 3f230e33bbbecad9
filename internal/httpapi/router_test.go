package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docfolio/docfolio/internal/actions/executor"
	"github.com/docfolio/docfolio/internal/assistant"
	"github.com/docfolio/docfolio/internal/config"
	"github.com/docfolio/docfolio/internal/llm"
	"github.com/docfolio/docfolio/internal/llm/fallback"
	"github.com/docfolio/docfolio/internal/snapshot"
	"github.com/docfolio/docfolio/internal/store"
)

type cannedResponder struct {
	reply string
}

func (r *cannedResponder) Reply(context.Context, llm.MessageInput) (string, error) {
	return r.reply, nil
}

func newTestRouter(t *testing.T, remote llm.Responder) (http.Handler, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	workspace := executor.NewWorkspace(st, nil, nil)
	service := assistant.New(assistant.Options{
		Store:    st,
		Builder:  snapshot.NewBuilder(st, snapshot.Limits{}),
		Remote:   remote,
		Fallback: fallback.New(),
		Runner:   executor.New(workspace, workspace, logger),
		Logger:   logger,
	})
	handler := NewRouter(Dependencies{
		Config:    config.Config{Environment: "test", LLMProvider: "openai"},
		Store:     st,
		Assistant: service,
		Logger:    logger,
	})
	return handler, st
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	payload := map[string]any{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v\n%s", err, recorder.Body.String())
	}
	return payload
}

func TestHealthAndInfo(t *testing.T) {
	handler, _ := newTestRouter(t, &cannedResponder{reply: "ok"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("healthz status: %d", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/info", nil))
	payload := decodeBody(t, recorder)
	if payload["name"] != "docfolio" || payload["environment"] != "test" {
		t.Fatalf("unexpected info payload: %v", payload)
	}
}

func TestMessageRoundTrip(t *testing.T) {
	handler, _ := newTestRouter(t, &cannedResponder{reply: "Hello! How can I help with your documents?"})

	created := postJSON(t, handler, "/api/v1/conversations", `{"title":"test"}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create conversation status: %d", created.Code)
	}
	conversationID, _ := decodeBody(t, created)["id"].(string)
	if conversationID == "" {
		t.Fatal("missing conversation id")
	}

	sent := postJSON(t, handler, "/api/v1/messages", fmt.Sprintf(
		`{"conversation_id":%q,"text":"hi"}`, conversationID))
	if sent.Code != http.StatusOK {
		t.Fatalf("message status: %d\n%s", sent.Code, sent.Body.String())
	}
	if reply, _ := decodeBody(t, sent)["reply"].(string); !strings.Contains(reply, "Hello") {
		t.Fatalf("unexpected reply: %q", reply)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/transcript?conversation_id="+conversationID, nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("transcript status: %d", recorder.Code)
	}
	payload := decodeBody(t, recorder)
	if count, _ := payload["count"].(float64); count != 2 {
		t.Fatalf("expected 2 transcript entries, got %v", payload["count"])
	}
}

func TestConfirmFlowOverHTTP(t *testing.T) {
	remote := &cannedResponder{}
	handler, st := newTestRouter(t, remote)
	ctx := context.Background()

	document, err := st.CreateDocument(ctx, store.CreateDocumentInput{Name: "Lease.pdf", Content: "terms"})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	conversation, err := st.CreateConversation(ctx, "test")
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	remote.reply = fmt.Sprintf("Deleting it now.\n\n```action\n{\"type\":\"delete_document\",\"documentId\":%q}\n```", document.ID)

	sent := postJSON(t, handler, "/api/v1/messages", fmt.Sprintf(
		`{"conversation_id":%q,"text":"delete the lease"}`, conversation.ID))
	payload := decodeBody(t, sent)
	if pending, _ := payload["pending"].(bool); !pending {
		t.Fatalf("expected a pending confirmation: %v", payload)
	}

	confirmed := postJSON(t, handler, "/api/v1/confirm", fmt.Sprintf(`{"conversation_id":%q}`, conversation.ID))
	if confirmed.Code != http.StatusOK {
		t.Fatalf("confirm status: %d\n%s", confirmed.Code, confirmed.Body.String())
	}
	result := decodeBody(t, confirmed)
	if success, _ := result["success"].(bool); !success {
		t.Fatalf("expected success: %v", result)
	}

	// A second confirm has nothing to dispatch.
	again := postJSON(t, handler, "/api/v1/confirm", fmt.Sprintf(`{"conversation_id":%q}`, conversation.ID))
	if again.Code != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", again.Code)
	}
}

func TestMessageValidation(t *testing.T) {
	handler, _ := newTestRouter(t, &cannedResponder{reply: "ok"})

	missing := postJSON(t, handler, "/api/v1/messages", `{"text":"hi"}`)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", missing.Code)
	}

	gone := postJSON(t, handler, "/api/v1/messages", `{"conversation_id":"conv_missing","text":"hi"}`)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", gone.Code)
	}
}
