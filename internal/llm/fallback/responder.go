package fallback

import (
	"context"
	"fmt"
	"strings"

	"github.com/docfolio/docfolio/internal/llm"
)

// Responder is the local stand-in used when the remote reasoning service is
// unreachable or times out. It classifies the latest user message against an
// ordered list of intents and answers with canned but context-aware text.
// It never fails and never emits an action directive, so a degraded upstream
// can not cause state mutations.
type Responder struct{}

func New() *Responder {
	return &Responder{}
}

type intent struct {
	keywords []string
	reply    func(input llm.MessageInput) string
}

// Intents are matched in order; the first keyword hit wins. Keep the more
// specific intents above the generic ones.
var intents = []intent{
	{
		keywords: []string{"summarize", "summary", "summarise", "tl;dr"},
		reply: func(input llm.MessageInput) string {
			if input.AttachedDocument != "" {
				return "I'm working offline right now, so I can't read the attached document in depth. " +
					"Once the assistant service is reachable again, ask me to summarize it and I'll go through it page by page."
			}
			return "I can summarize a document for you, but I'm working offline right now. " +
				"Attach the document you'd like summarized and try again once the assistant service is back."
		},
	},
	{
		keywords: []string{"deadline", "due date", "due by", "expires", "expiration"},
		reply: func(llm.MessageInput) string {
			return "I'm offline at the moment and can't scan documents for dates. " +
				"Deadlines usually appear near the top of notices and on the last page of contracts, " +
				"so those are good places to check while I'm unavailable."
		},
	},
	{
		keywords: []string{"key points", "main points", "highlights", "important parts"},
		reply: func(llm.MessageInput) string {
			return "Extracting key points needs the full assistant service, which I can't reach right now. " +
				"Try again shortly, or skim the headings and the first sentence of each section for the essentials."
		},
	},
	{
		keywords: []string{"email", "draft", "compose", "write to"},
		reply: func(llm.MessageInput) string {
			return "I can't draft the email for you while offline, but here's a skeleton to start from: " +
				"a one-line subject stating the ask, a sentence of context, the request itself, and a clear next step. " +
				"I'll happily write the full draft once I'm back online."
		},
	},
	{
		keywords: []string{"study", "quiz", "flashcard", "test me", "practice"},
		reply: func(llm.MessageInput) string {
			return "Study mode needs the assistant service, and I'm offline right now. " +
				"In the meantime, rereading the document and writing three questions about it yourself is a solid warm-up."
		},
	},
	{
		keywords: []string{"explain", "what is", "what does", "what do", "meaning of", "mean?"},
		reply: func(llm.MessageInput) string {
			return "I'd like to explain that properly, but I'm offline and can't look anything up. " +
				"Ask me again in a bit and I'll give you a full explanation."
		},
	},
}

// Reply never returns an error. The error slot exists only to satisfy the
// Responder contract.
func (r *Responder) Reply(_ context.Context, input llm.MessageInput) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(input.Text))
	for _, candidate := range intents {
		for _, keyword := range candidate.keywords {
			if strings.Contains(normalized, keyword) {
				return candidate.reply(input), nil
			}
		}
	}
	return overview(input), nil
}

func overview(input llm.MessageInput) string {
	stats := statsLine(input.WorkspaceContext)
	if stats == "" {
		return "I'm running in offline mode right now, so I can answer simple questions about your workspace " +
			"but can't do any document reasoning. Try again in a little while for the full assistant."
	}
	return fmt.Sprintf("I'm running in offline mode right now. Here's your workspace at a glance: %s. "+
		"For summaries, drafting, or anything that needs reading a document, try again once I'm back online.", stats)
}

// statsLine pulls the leading stats summary out of the rendered workspace
// context block.
func statsLine(workspaceContext string) string {
	for _, line := range strings.Split(workspaceContext, "\n") {
		line = strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(line, "Stats: "); found {
			return rest
		}
	}
	return ""
}
