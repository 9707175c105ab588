package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxToolRounds bounds how many times a single run may go back to the
// model after executing tool calls.
const maxToolRounds = 8

// OpenAIRuntime implements Runtime against an OpenAI-compatible chat
// completions API with streaming and tool calling.
type OpenAIRuntime struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// OpenAIConfig holds configuration for the OpenAI runtime
type OpenAIConfig struct {
	APIURL  string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenAIRuntime creates a new OpenAI-compatible runtime client
func NewOpenAIRuntime(config OpenAIConfig) *OpenAIRuntime {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &OpenAIRuntime{
		apiURL: config.APIURL,
		apiKey: config.APIKey,
		model:  config.Model,
		client: &http.Client{Timeout: timeout},
	}
}

// GetName returns the name of the runtime implementation
func (r *OpenAIRuntime) GetName() string {
	return "openai"
}

// chatMessage is the wire format of a conversation message
type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type toolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function toolCallFunction `json:"function"`
}

type toolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Tools    []chatTool    `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

// streamChunk is one server-sent event payload of a streamed completion
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Run executes one agent turn. It streams assistant text to fragments
// as it arrives and transparently executes tool calls, going back to
// the model with the tool results until the model produces a final
// text answer.
func (r *OpenAIRuntime) Run(ctx context.Context, req RunRequest, fragments chan<- string) (*RunResult, error) {
	toolsByName := make(map[string]Tool, len(req.Tools))
	wireTools := make([]chatTool, 0, len(req.Tools))
	for _, tool := range req.Tools {
		toolsByName[tool.Name] = tool
		wireTools = append(wireTools, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		})
	}

	messages := make([]chatMessage, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})

	var finalText strings.Builder

	for round := 0; round < maxToolRounds; round++ {
		text, calls, err := r.streamCompletion(ctx, messages, wireTools, fragments)
		if err != nil {
			return nil, err
		}
		finalText.WriteString(text)

		if len(calls) == 0 {
			break
		}

		// The assistant message carrying the tool calls must precede
		// the tool result messages in the transcript.
		messages = append(messages, chatMessage{
			Role:      "assistant",
			Content:   text,
			ToolCalls: calls,
		})

		for _, call := range calls {
			tool, ok := toolsByName[call.Function.Name]
			if !ok {
				return nil, fmt.Errorf("agent requested unknown tool %q", call.Function.Name)
			}

			result, err := tool.Invoke(ctx, json.RawMessage(call.Function.Arguments))
			var content string
			if err != nil {
				// Tool failures go back to the model as text so it can
				// explain the problem to the guest.
				content = fmt.Sprintf(`{"error": %q}`, err.Error())
			} else {
				encoded, err := json.Marshal(result)
				if err != nil {
					return nil, fmt.Errorf("failed to encode result of tool %q: %w", call.Function.Name, err)
				}
				content = string(encoded)
			}

			messages = append(messages, chatMessage{
				Role:       "tool",
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return &RunResult{
		NewMessages: []Message{
			{Role: RoleUser, Content: req.UserPrompt},
			{Role: RoleAssistant, Content: finalText.String()},
		},
	}, nil
}

// streamCompletion performs one streamed chat completion request. It
// relays content deltas to fragments and accumulates any tool calls
// the model emits.
func (r *OpenAIRuntime) streamCompletion(
	ctx context.Context,
	messages []chatMessage,
	tools []chatTool,
	fragments chan<- string,
) (string, []toolCall, error) {
	body, err := json.Marshal(chatRequest{
		Model:    r.model,
		Messages: messages,
		Tools:    tools,
		Stream:   true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", nil, fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", nil, fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, string(payload))
	}

	var text strings.Builder
	calls := map[int]*toolCall{}
	maxIndex := -1

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", nil, fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Content != "" {
			text.WriteString(delta.Content)
			select {
			case fragments <- delta.Content:
			case <-ctx.Done():
				return "", nil, ctx.Err()
			}
		}

		for _, tc := range delta.ToolCalls {
			call, ok := calls[tc.Index]
			if !ok {
				call = &toolCall{Type: "function"}
				calls[tc.Index] = call
				if tc.Index > maxIndex {
					maxIndex = tc.Index
				}
			}
			if tc.ID != "" {
				call.ID = tc.ID
			}
			if tc.Function.Name != "" {
				call.Function.Name = tc.Function.Name
			}
			call.Function.Arguments += tc.Function.Arguments
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("chat completion stream read failed: %w", err)
	}

	ordered := make([]toolCall, 0, len(calls))
	for i := 0; i <= maxIndex; i++ {
		if call, ok := calls[i]; ok {
			ordered = append(ordered, *call)
		}
	}

	return text.String(), ordered, nil
}
