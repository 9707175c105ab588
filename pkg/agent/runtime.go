package agent

import (
	"context"
	"encoding/json"
)

// Role identifies the author of a conversation message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation history
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Tool is a named operation the agent may call during a run. Parameters
// holds a JSON schema describing the arguments; Invoke receives the raw
// argument object produced by the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
	Invoke      func(ctx context.Context, args json.RawMessage) (interface{}, error)
}

// RunRequest describes one agent run: the identity/system prompt, the
// replayable history of prior turns, the new user prompt and the tool
// set the agent may use.
type RunRequest struct {
	SystemPrompt string
	History      []Message
	UserPrompt   string
	Tools        []Tool
}

// RunResult is returned when a run completes. NewMessages holds exactly
// the messages generated by this turn, expected to be one user message
// and one assistant message.
type RunResult struct {
	NewMessages []Message
}

// Runtime defines the interface to an LLM agent backend.
//
// Run blocks until the agent run completes, sending text fragments to
// the fragments channel as they are produced. The runtime never closes
// the channel; the caller owns it. Tool calls issued by the model are
// executed through the Invoke functions of the supplied tools before
// the run finishes.
type Runtime interface {
	Run(ctx context.Context, req RunRequest, fragments chan<- string) (*RunResult, error)

	// GetName returns the name of the runtime implementation
	GetName() string
}
