// Package assistant runs the conversation pipeline: it relays user messages
// to the reasoning service, enforces the confirmation policy on any action
// the reply proposes, dispatches approved actions and reports every outcome
// back into the transcript.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/docfolio/docfolio/internal/actions"
	"github.com/docfolio/docfolio/internal/actions/executor"
	"github.com/docfolio/docfolio/internal/chatlog"
	"github.com/docfolio/docfolio/internal/events"
	"github.com/docfolio/docfolio/internal/llm"
	"github.com/docfolio/docfolio/internal/snapshot"
	"github.com/docfolio/docfolio/internal/store"
)

const historyWindow = 20

const systemPrompt = `You are the assistant inside a personal document workspace app.
You help the user manage documents, folders, notifications and their profile,
and you can draft and send emails and faxes on their behalf.

When the user asks you to change something, reply with your conversational
text followed by exactly one fenced directive block:

` + "```action" + `
{"type": "<action_type>", ...}
` + "```" + `

Use camelCase keys (documentId, folderId, newName, recipientName, faxNumber).
If no action is needed, omit the block entirely or use {"type": "none"}.
Set "confirmationRequired": true when the user should confirm first.
Never invent document or folder ids; only use ids from the workspace state below.`

// TurnOutcome reports what one dispatched turn did. Exactly one of Pending
// or Executed is set when the reply proposed an action.
type TurnOutcome struct {
	Reply    string
	Pending  bool
	Prompt   string
	Executed bool
	Result   executor.Result
	Rejected string
}

type Service struct {
	store    *store.Store
	builder  *snapshot.Builder
	remote   llm.Responder
	fallback llm.Responder
	runner   *executor.Executor
	hub      *events.Hub
	chatRoot string
	timeout  time.Duration
	logger   *slog.Logger
	gates    *gates
}

type Options struct {
	Store    *store.Store
	Builder  *snapshot.Builder
	Remote   llm.Responder // may be nil when no provider is configured
	Fallback llm.Responder
	Runner   *executor.Executor
	Hub      *events.Hub // may be nil
	ChatRoot string      // empty disables the markdown audit log
	Timeout  time.Duration
	Logger   *slog.Logger
}

func New(opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:    opts.Store,
		builder:  opts.Builder,
		remote:   opts.Remote,
		fallback: opts.Fallback,
		runner:   opts.Runner,
		hub:      opts.Hub,
		chatRoot: opts.ChatRoot,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		gates:    newGates(),
	}
}

// HandleMessage runs one full turn. The user message is appended before the
// reasoning call is made; the assistant reply and any outcome message are
// appended only after it resolves, so readers never observe an out-of-order
// transcript. A second message for the same conversation while one is in
// flight is rejected.
func (s *Service) HandleMessage(ctx context.Context, conversationID, text, attachedDocumentID string) (TurnOutcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnOutcome{}, fmt.Errorf("message text is required")
	}
	if _, err := s.store.LookupConversation(ctx, conversationID); err != nil {
		return TurnOutcome{}, err
	}

	gate := s.gates.forConversation(conversationID)
	if err := gate.beginTurn(); err != nil {
		return TurnOutcome{}, err
	}
	defer gate.endTurn()

	history, err := s.history(ctx, conversationID)
	if err != nil {
		return TurnOutcome{}, err
	}
	if err := s.append(ctx, conversationID, store.RoleUser, text, attachedDocumentID); err != nil {
		return TurnOutcome{}, err
	}

	input := llm.MessageInput{
		ConversationID:   conversationID,
		Text:             text,
		SystemPrompt:     systemPrompt,
		History:          history,
		AttachedDocument: s.attachedContext(ctx, attachedDocumentID),
	}
	if built, buildErr := s.builder.Build(ctx); buildErr != nil {
		s.logger.Warn("snapshot build failed", "conversation", conversationID, "error", buildErr)
	} else {
		input.WorkspaceContext = built.Render()
	}

	reply := s.reply(ctx, input)
	display, raw := actions.ExtractDirective(reply)

	request, validationErr := actions.Validate(raw)
	if validationErr != nil {
		// Rejected before any side effect. The conversational text still
		// lands in the transcript; the directive does not.
		s.logger.Warn("action rejected", "conversation", conversationID, "error", validationErr)
		if display != "" {
			if err := s.append(ctx, conversationID, store.RoleAssistant, display, ""); err != nil {
				return TurnOutcome{}, err
			}
		}
		return TurnOutcome{Reply: display, Rejected: validationErr.Error()}, nil
	}

	if request.IsNone() {
		if display == "" {
			display = reply
		}
		if err := s.append(ctx, conversationID, store.RoleAssistant, display, ""); err != nil {
			return TurnOutcome{}, err
		}
		return TurnOutcome{Reply: display}, nil
	}

	if gate.hasPending() {
		s.logger.Warn("action rejected while another is pending", "conversation", conversationID, "kind", request.Kind)
		if display != "" {
			if err := s.append(ctx, conversationID, store.RoleAssistant, display, ""); err != nil {
				return TurnOutcome{}, err
			}
		}
		return TurnOutcome{Reply: display, Rejected: "another action is awaiting confirmation"}, nil
	}

	if request.ConfirmationRequired {
		prompt := actions.ConfirmationPrompt(request, s.entityName(ctx, request))
		if err := gate.park(request, prompt); err != nil {
			return TurnOutcome{}, err
		}
		content := prompt
		if display != "" {
			content = display + "\n\n" + prompt
		}
		if err := s.append(ctx, conversationID, store.RoleAssistant, content, ""); err != nil {
			return TurnOutcome{}, err
		}
		return TurnOutcome{Reply: display, Pending: true, Prompt: prompt}, nil
	}

	if display != "" {
		if err := s.append(ctx, conversationID, store.RoleAssistant, display, ""); err != nil {
			return TurnOutcome{}, err
		}
	}
	result := s.runner.Execute(ctx, request)
	if err := s.append(ctx, conversationID, store.RoleAssistant, outcomeMessage(result), ""); err != nil {
		return TurnOutcome{}, err
	}
	return TurnOutcome{Reply: display, Executed: true, Result: result}, nil
}

// Confirm dispatches the parked action and appends exactly one outcome
// message. Once taken, the action runs to completion or failure; there is
// no mid-flight cancellation.
func (s *Service) Confirm(ctx context.Context, conversationID string) (executor.Result, error) {
	if _, err := s.store.LookupConversation(ctx, conversationID); err != nil {
		return executor.Result{}, err
	}
	gate := s.gates.forConversation(conversationID)
	if err := gate.beginTurn(); err != nil {
		return executor.Result{}, err
	}
	defer gate.endTurn()

	parked, err := gate.take()
	if err != nil {
		return executor.Result{}, err
	}
	result := s.runner.Execute(ctx, parked.request)
	if err := s.append(ctx, conversationID, store.RoleAssistant, outcomeMessage(result), ""); err != nil {
		return executor.Result{}, err
	}
	return result, nil
}

// Cancel discards the parked action without dispatching it.
func (s *Service) Cancel(ctx context.Context, conversationID string) error {
	if _, err := s.store.LookupConversation(ctx, conversationID); err != nil {
		return err
	}
	gate := s.gates.forConversation(conversationID)
	if err := gate.beginTurn(); err != nil {
		return err
	}
	defer gate.endTurn()

	if _, err := gate.take(); err != nil {
		return err
	}
	return s.append(ctx, conversationID, store.RoleAssistant, "Cancelled. No changes were made.", "")
}

// PendingPrompt returns the confirmation question for the parked action, if
// any.
func (s *Service) PendingPrompt(conversationID string) (string, bool) {
	gate := s.gates.forConversation(conversationID)
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.pending == nil {
		return "", false
	}
	return gate.pending.prompt, true
}

func (s *Service) reply(ctx context.Context, input llm.MessageInput) string {
	if s.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		text, err := s.remote.Reply(remoteCtx, input)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		s.logger.Warn("remote reply failed, using fallback", "conversation", input.ConversationID, "error", err)
	}
	text, err := s.fallback.Reply(ctx, input)
	if err != nil || strings.TrimSpace(text) == "" {
		// The fallback contract forbids this; guard anyway.
		return "I'm having trouble answering right now. Please try again in a moment."
	}
	return text
}

func (s *Service) history(ctx context.Context, conversationID string) ([]llm.Turn, error) {
	messages, err := s.store.ListMessages(ctx, conversationID, historyWindow)
	if err != nil {
		return nil, err
	}
	turns := make([]llm.Turn, 0, len(messages))
	for _, message := range messages {
		turns = append(turns, llm.Turn{Role: message.Role, Content: message.Content})
	}
	return turns, nil
}

func (s *Service) attachedContext(ctx context.Context, documentID string) string {
	if strings.TrimSpace(documentID) == "" {
		return ""
	}
	document, err := s.store.LookupDocument(ctx, documentID)
	if err != nil {
		s.logger.Warn("attached document lookup failed", "document", documentID, "error", err)
		return ""
	}
	return fmt.Sprintf("id=%s name=%q kind=%s pages=%d size=%d", document.ID, document.Name, document.Kind, document.PageCount, document.FileSize)
}

// entityName resolves a display name for the confirmation prompt. A stale id
// simply yields an empty name; the prompt falls back to the id.
func (s *Service) entityName(ctx context.Context, request actions.Request) string {
	if request.DocumentID != "" {
		if document, err := s.store.LookupDocument(ctx, request.DocumentID); err == nil {
			return document.Name
		}
		return ""
	}
	if request.FolderID != "" {
		if folder, err := s.store.LookupFolder(ctx, request.FolderID); err == nil {
			return folder.Name
		}
	}
	return ""
}

func (s *Service) append(ctx context.Context, conversationID, role, content, attachedDocumentID string) error {
	message, err := s.store.AppendMessage(ctx, store.AppendMessageInput{
		ConversationID:     conversationID,
		Role:               role,
		Content:            content,
		AttachedDocumentID: attachedDocumentID,
	})
	if err != nil {
		return err
	}
	if s.hub != nil {
		s.hub.PublishMessage(conversationID, role, content)
	}
	if s.chatRoot != "" {
		if logErr := chatlog.Append(chatlog.Entry{
			Root:           s.chatRoot,
			ConversationID: conversationID,
			Role:           role,
			Text:           content,
			Timestamp:      message.CreatedAt,
		}); logErr != nil {
			s.logger.Warn("chat log append failed", "conversation", conversationID, "error", logErr)
		}
	}
	return nil
}

func outcomeMessage(result executor.Result) string {
	if result.OK {
		return "✓ " + result.Message
	}
	return "✗ " + result.Message
}
