package claude

import (
	"fmt"
	"log/slog"

	"github.com/jmuk/recipes/pkg/chat/parts"
)

type contentType string

const (
	contentTypeToolUse    contentType = "tool_use"
	contentTypeToolResult contentType = "tool_result"
	contentTypeText       contentType = "text"
)

// toolUseContent is the type of content for the tool use.
type toolUseContent struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
	Type  contentType    `json:"type"`
}

type textContent struct {
	Text string      `json:"text"`
	Type contentType `json:"type"`
}

// toolResultContent is the type of content for the tool use result.
type toolResultContent struct {
	ToolUseID string      `json:"tool_use_id"`
	Type      contentType `json:"type"`
	Content   string      `json:"content"`
	IsError   bool        `json:"is_error,omitempty"`
}

type inputMessage struct {
	Content []any      `json:"content"`
	Role    parts.Role `json:"role"`
}

func toInput(m parts.Message, logger *slog.Logger) (inputMessage, error) {
	if m.Role != parts.RoleUser && m.Role != parts.RoleAssistant {
		return inputMessage{}, fmt.Errorf("unknown role %s", m.Role)
	}
	msg := inputMessage{Role: m.Role, Content: []any{}}
	for _, b := range m.Content {
		switch b := b.(type) {
		case parts.Text:
			if b.Text == "" {
				continue
			}
			msg.Content = append(msg.Content, textContent{Text: b.Text, Type: contentTypeText})
		case parts.ToolUse:
			input := b.Input
			if input == nil {
				input = map[string]any{}
			}
			msg.Content = append(msg.Content, toolUseContent{
				ID:    b.ID,
				Name:  b.Name,
				Input: input,
				Type:  contentTypeToolUse,
			})
		case parts.ToolResult:
			msg.Content = append(msg.Content, toolResultContent{
				ToolUseID: b.ToolUseID,
				Type:      contentTypeToolResult,
				Content:   b.Content,
				IsError:   b.IsError,
			})
		default:
			logger.Warn("Dropping unsupported content", "kind", b.Kind())
		}
	}
	if len(msg.Content) == 0 {
		logger.Warn("Nothing to send in the message, using a placeholder", "role", m.Role)
		msg.Content = append(msg.Content, textContent{Text: parts.OmittedContent, Type: contentTypeText})
	}
	return msg, nil
}
