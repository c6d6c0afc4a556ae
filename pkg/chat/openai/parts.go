package openai

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/param"
)

// toMessageParams converts one message. Tool results become separate
// tool-role messages, which must come right after the assistant message
// holding the calls, so they are emitted before any text of the same turn.
func toMessageParams(m parts.Message, logger *slog.Logger) ([]openai.ChatCompletionMessageParamUnion, error) {
	var texts []string
	var results []openai.ChatCompletionMessageParamUnion
	var calls []openai.ChatCompletionMessageToolCallUnionParam
	for _, b := range m.Content {
		switch b := b.(type) {
		case parts.Text:
			texts = append(texts, b.Text)
		case parts.ToolUse:
			args, err := json.Marshal(b.Input)
			if err != nil {
				return nil, fmt.Errorf("failed to encode input of %s: %w", b.Name, err)
			}
			calls = append(calls, openai.ChatCompletionMessageToolCallUnionParam{
				OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
					ID: b.ID,
					Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
						Arguments: string(args),
						Name:      b.Name,
					},
					Type: "function",
				},
			})
		case parts.ToolResult:
			content := b.Content
			if b.IsError {
				content = "error: " + content
			}
			results = append(results, openai.ToolMessage(content, b.ToolUseID))
		default:
			logger.Warn("Dropping unsupported content", "kind", b.Kind())
		}
	}
	text := strings.Join(texts, "\n")
	if text == "" && len(calls) == 0 && len(results) == 0 {
		logger.Warn("Nothing to send in the message, using a placeholder", "role", m.Role)
		text = parts.OmittedContent
	}
	switch m.Role {
	case parts.RoleUser:
		if text != "" {
			results = append(results, openai.UserMessage(text))
		}
		return results, nil
	case parts.RoleAssistant:
		msg := &openai.ChatCompletionAssistantMessageParam{ToolCalls: calls}
		if text != "" {
			msg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
				OfString: param.NewOpt(text),
			}
		}
		return []openai.ChatCompletionMessageParamUnion{{OfAssistant: msg}}, nil
	}
	return nil, fmt.Errorf("unknown role %s", m.Role)
}

func stopReason(finish string) parts.StopReason {
	switch finish {
	case "stop":
		return parts.StopEndTurn
	case "tool_calls", "function_call":
		return parts.StopToolUse
	case "length":
		return parts.StopMaxTokens
	case "content_filter":
		return parts.StopContentFiltered
	}
	return parts.StopUnknown
}

func fromCompletion(resp *openai.ChatCompletion, logger *slog.Logger) *agent.Response {
	if len(resp.Choices) == 0 {
		return &agent.Response{StopReason: parts.StopUnknown}
	}
	choice := resp.Choices[0]
	msg := &parts.Message{Role: parts.RoleAssistant}
	if choice.Message.Content != "" {
		msg.Content = append(msg.Content, parts.Text{Text: choice.Message.Content})
	}
	if choice.Message.Refusal != "" {
		msg.Content = append(msg.Content, parts.Other{Type: parts.KindGuardrail, Detail: choice.Message.Refusal})
	}
	for _, tc := range choice.Message.ToolCalls {
		input := map[string]any{}
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &input); err != nil {
			logger.Warn("Malformed tool arguments", "tool", tc.Function.Name, "arguments", tc.Function.Arguments, "error", err)
			input = nil
		}
		msg.Content = append(msg.Content, parts.ToolUse{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: input,
		})
	}
	return &agent.Response{
		StopReason: stopReason(choice.FinishReason),
		Message:    msg,
	}
}
