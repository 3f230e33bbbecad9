package llm

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("llm unavailable")

// Turn is one prior transcript entry passed to the reasoning service.
type Turn struct {
	Role    string // user | assistant
	Content string
}

type MessageInput struct {
	ConversationID   string
	Text             string
	SystemPrompt     string
	History          []Turn
	WorkspaceContext string // rendered context snapshot
	AttachedDocument string // rendered metadata of the attached document, if any
}

type Responder interface {
	Reply(ctx context.Context, input MessageInput) (string, error)
}
