package assisterr

import "errors"

var (
	ErrActionRejected   = errors.New("action rejected")
	ErrPendingAction    = errors.New("another action is awaiting confirmation")
	ErrNoPendingAction  = errors.New("no action is awaiting confirmation")
	ErrTurnInFlight     = errors.New("a turn is already in flight for this conversation")
	ErrNotFound         = errors.New("not found")
	ErrUnknownSetting   = errors.New("unknown setting key")
	ErrUnknownKind      = errors.New("unknown action kind")
	ErrConversationGone = errors.New("conversation not found")
)
