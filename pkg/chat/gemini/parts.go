package gemini

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"google.golang.org/genai"
)

// localIDPrefix marks tool-use IDs made up on this side for function calls
// that came without one. They are never sent back to the service.
const localIDPrefix = "local-"

func toContents(messages []parts.Message, logger *slog.Logger) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role
		switch m.Role {
		case parts.RoleUser:
			role = genai.RoleUser
		case parts.RoleAssistant:
			role = genai.RoleModel
		default:
			return nil, fmt.Errorf("unknown role %s", m.Role)
		}
		var ps []*genai.Part
		for _, b := range m.Content {
			switch b := b.(type) {
			case parts.Text:
				ps = append(ps, genai.NewPartFromText(b.Text))
			case parts.ToolUse:
				ps = append(ps, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   remoteID(b.ID),
					Name: b.Name,
					Args: b.Input,
				}})
			case parts.ToolResult:
				resp := map[string]any{"output": b.Content}
				if b.IsError {
					resp = map[string]any{"error": b.Content}
				}
				ps = append(ps, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       remoteID(b.ToolUseID),
					Name:     b.Name,
					Response: resp,
				}})
			default:
				logger.Warn("Dropping unsupported content", "kind", b.Kind())
			}
		}
		if len(ps) == 0 {
			logger.Warn("Nothing to send in the message, using a placeholder", "role", m.Role)
			ps = append(ps, genai.NewPartFromText(parts.OmittedContent))
		}
		contents = append(contents, genai.NewContentFromParts(ps, role))
	}
	return contents, nil
}

func remoteID(id string) string {
	if strings.HasPrefix(id, localIDPrefix) {
		return ""
	}
	return id
}

func stopReason(fr genai.FinishReason, hasToolUse bool) parts.StopReason {
	switch fr {
	case genai.FinishReasonStop:
		if hasToolUse {
			return parts.StopToolUse
		}
		return parts.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return parts.StopMaxTokens
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent, genai.FinishReasonSPII:
		return parts.StopContentFiltered
	}
	return parts.StopUnknown
}

func fromPart(p *genai.Part) parts.Block {
	switch {
	case p.FunctionCall != nil:
		id := p.FunctionCall.ID
		if id == "" {
			id = localIDPrefix + uuid.NewString()
		}
		return parts.ToolUse{ID: id, Name: p.FunctionCall.Name, Input: p.FunctionCall.Args}
	case p.Thought:
		return parts.Other{Type: parts.KindThinking, Detail: p.Text}
	case p.Text != "":
		return parts.Text{Text: p.Text}
	case p.InlineData != nil:
		return parts.Other{Type: blobKind(p.InlineData.MIMEType), Detail: p.InlineData.MIMEType}
	case p.FileData != nil:
		return parts.Other{Type: blobKind(p.FileData.MIMEType), Detail: p.FileData.FileURI}
	}
	return parts.Other{Type: parts.KindUnknown}
}

func blobKind(mimeType string) parts.BlockKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return parts.KindImage
	case strings.HasPrefix(mimeType, "video/"):
		return parts.KindVideo
	}
	return parts.KindDocument
}

func fromResponse(resp *genai.GenerateContentResponse, logger *slog.Logger) *agent.Response {
	if len(resp.Candidates) == 0 {
		if pf := resp.PromptFeedback; pf != nil && pf.BlockReason != "" {
			logger.Warn("Prompt blocked", "reason", pf.BlockReason, "message", pf.BlockReasonMessage)
			return &agent.Response{
				StopReason: parts.StopContentFiltered,
				Message: &parts.Message{
					Role:    parts.RoleAssistant,
					Content: []parts.Block{parts.Other{Type: parts.KindGuardrail, Detail: string(pf.BlockReason)}},
				},
			}
		}
		return &agent.Response{StopReason: parts.StopUnknown}
	}
	cand := resp.Candidates[0]
	msg := &parts.Message{Role: parts.RoleAssistant}
	var hasToolUse bool
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			b := fromPart(p)
			if b.Kind() == parts.KindToolUse {
				hasToolUse = true
			}
			msg.Content = append(msg.Content, b)
		}
	}
	logger.Debug("Received", "finish_reason", cand.FinishReason, "blocks", len(msg.Content))
	return &agent.Response{
		StopReason: stopReason(cand.FinishReason, hasToolUse),
		Message:    msg,
	}
}
