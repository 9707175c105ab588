package agent

import (
	"context"
	"strings"
)

// DevRuntime is a stand-in runtime for local development. It never
// calls an external API; it streams a canned acknowledgement back to
// the caller word by word.
type DevRuntime struct{}

// NewDevRuntime creates a new development runtime
func NewDevRuntime() *DevRuntime {
	return &DevRuntime{}
}

// GetName returns the name of the runtime implementation
func (r *DevRuntime) GetName() string {
	return "dev"
}

// Run streams a canned reply and reports the turn's message pair
func (r *DevRuntime) Run(ctx context.Context, req RunRequest, fragments chan<- string) (*RunResult, error) {
	reply := "Thanks for your message. The concierge agent is running in development mode, " +
		"so no reservation or service-order actions were taken. You said: " + req.UserPrompt

	for _, word := range strings.SplitAfter(reply, " ") {
		select {
		case fragments <- word:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return &RunResult{
		NewMessages: []Message{
			{Role: RoleUser, Content: req.UserPrompt},
			{Role: RoleAssistant, Content: reply},
		},
	}, nil
}
