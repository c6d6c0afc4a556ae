package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
)

type toolChoice struct {
	Name                   string `json:"name,omitempty"`
	Type                   string `json:"type"`
	DisableParallelToolUse bool   `json:"disable_parallel_tool_use,omitempty"`
}

type tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

type bodyData struct {
	Model         string         `json:"model"`
	Messages      []inputMessage `json:"messages"`
	MaxTokens     int            `json:"max_tokens"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
	System        string         `json:"system,omitempty"`
	ToolChoice    *toolChoice    `json:"tool_choice,omitempty"`
	Tools         []tool         `json:"tools,omitempty"`
}

func (a *Agent) buildRequestBody(messages []parts.Message, logger *slog.Logger) ([]byte, error) {
	body := bodyData{
		Model:     a.modelName,
		MaxTokens: a.config.MaxTokens,
		Stream:    true,
		System:    a.systemPrompt,
		Tools:     a.tools,
	}
	if len(a.tools) > 0 {
		body.ToolChoice = &toolChoice{Type: "auto", DisableParallelToolUse: true}
	}
	for _, m := range messages {
		imsg, err := toInput(m, logger)
		if err != nil {
			return nil, err
		}
		body.Messages = append(body.Messages, imsg)
	}
	return json.Marshal(body)
}

func (a *Agent) request(ctx context.Context, body []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", a.config.AnthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return resp.Body, nil
}

type errorBody struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func readAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &agent.APIError{StatusCode: resp.StatusCode}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error.Message != "" {
		apiErr.Type = eb.Error.Type
		apiErr.Message = eb.Error.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
