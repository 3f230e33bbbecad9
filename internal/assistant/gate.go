package assistant

import (
	"sync"

	"github.com/docfolio/docfolio/internal/actions"
	"github.com/docfolio/docfolio/internal/assisterr"
)

// pendingAction is an action parked behind the confirmation gate.
type pendingAction struct {
	request actions.Request
	prompt  string
}

// conversationGate serializes one conversation: at most one turn in flight
// and at most one action awaiting confirmation. Gates for distinct
// conversations are independent.
type conversationGate struct {
	mu         sync.Mutex
	turnActive bool
	pending    *pendingAction
}

func (g *conversationGate) beginTurn() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.turnActive {
		return assisterr.ErrTurnInFlight
	}
	g.turnActive = true
	return nil
}

func (g *conversationGate) endTurn() {
	g.mu.Lock()
	g.turnActive = false
	g.mu.Unlock()
}

func (g *conversationGate) park(request actions.Request, prompt string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return assisterr.ErrPendingAction
	}
	g.pending = &pendingAction{request: request, prompt: prompt}
	return nil
}

// take removes and returns the parked action. Once taken the action is
// committed to dispatch or cancellation; it can not be parked again.
func (g *conversationGate) take() (pendingAction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return pendingAction{}, assisterr.ErrNoPendingAction
	}
	parked := *g.pending
	g.pending = nil
	return parked, nil
}

func (g *conversationGate) hasPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// gates hands out the per-conversation gate, creating it on first use.
type gates struct {
	mu   sync.Mutex
	byID map[string]*conversationGate
}

func newGates() *gates {
	return &gates{byID: map[string]*conversationGate{}}
}

func (g *gates) forConversation(conversationID string) *conversationGate {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate, ok := g.byID[conversationID]
	if !ok {
		gate = &conversationGate{}
		g.byID[conversationID] = gate
	}
	return gate
}
