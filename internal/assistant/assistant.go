package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"aurora-tasks-backend/internal/tasks"
)

const (
	emptyMessageReply = "I didn't catch that. Could you tell me what you'd like to do with your tasks?"

	defaultGatewayTimeout = 30 * time.Second
)

// Assistant orchestrates one command: context building, the AI path with its
// fallback, action execution, and reply merging. HandleCommand always returns
// a non-empty reply.
type Assistant struct {
	Store    TaskStore
	Gateway  Gateway
	Executor *Executor
	Fallback *Fallback
	Timeout  time.Duration

	// now is swappable for tests
	now func() time.Time
}

func New(store TaskStore, gw Gateway) *Assistant {
	return &Assistant{
		Store:    store,
		Gateway:  gw,
		Executor: &Executor{Store: store},
		Fallback: &Fallback{Store: store},
		Timeout:  defaultGatewayTimeout,
		now:      time.Now,
	}
}

func (a *Assistant) HandleCommand(ctx context.Context, userID int, message string) string {
	if strings.TrimSpace(message) == "" {
		return emptyMessageReply
	}

	if a.Gateway != nil && a.Gateway.Available() {
		if reply, ok := a.tryModel(ctx, userID, message); ok {
			return reply
		}
		// Any model-path failure falls through to the pattern interpreter.
	}

	return a.Fallback.Interpret(ctx, userID, message)
}

// tryModel runs the AI path end to end. ok=false means the caller should use
// the fallback interpreter instead.
func (a *Assistant) tryModel(ctx context.Context, userID int, message string) (string, bool) {
	list, err := a.Store.ListTasks(ctx, userID, tasks.Filter{})
	if err != nil {
		log.Printf("[WARN] assistant: listing tasks for context failed: %v", err)
		return "", false
	}

	prompt := BuildSystemPrompt(list, a.now())

	cctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	raw, err := a.Gateway.Complete(cctx, prompt, message)
	if err != nil {
		log.Printf("[WARN] assistant: gateway call failed: %v", err)
		return "", false
	}

	reply, act := ParseResponse(raw)
	if act == nil {
		return reply, true
	}

	confirmation := a.Executor.Execute(ctx, userID, act)
	if strings.TrimSpace(reply) == "" || reply == genericReply {
		return confirmation, true
	}
	return reply + "\n\n" + confirmation, true
}
