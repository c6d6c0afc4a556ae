package chat

import (
	"context"

	"github.com/jmuk/recipes/pkg/chat/parts"
)

// interruptedResult answers a tool use that was never run because its round
// was aborted.
const interruptedResult = "the tool was not run: the previous turn was interrupted"

// TurnInput is what the user side contributes to a turn: either a Prompt or
// the ToolResults of the previous reply.
type TurnInput interface {
	blocks() []parts.Block
}

type Prompt string

func (p Prompt) blocks() []parts.Block {
	return []parts.Block{parts.Text{Text: string(p)}}
}

type ToolResults []parts.ToolResult

func (r ToolResults) blocks() []parts.Block {
	bs := make([]parts.Block, 0, len(r))
	for _, tr := range r {
		bs = append(bs, tr)
	}
	return bs
}

// unansweredToolUses answers the tool uses of the last assistant message
// when a turn aborted before sending their results. Tools that did run get
// their real result; the others are reported as not run.
func unansweredToolUses(h *parts.History, undelivered []parts.ToolResult) []parts.Block {
	last, ok := h.Last()
	if !ok || last.Role != parts.RoleAssistant {
		return nil
	}
	ran := make(map[string]parts.ToolResult, len(undelivered))
	for _, r := range undelivered {
		ran[r.ToolUseID] = r
	}
	var bs []parts.Block
	for _, tu := range last.ToolUses() {
		if r, ok := ran[tu.ID]; ok {
			bs = append(bs, r)
			continue
		}
		bs = append(bs, parts.ToolResult{
			ToolUseID: tu.ID,
			Name:      tu.Name,
			Content:   interruptedResult,
			IsError:   true,
		})
	}
	return bs
}

// RunTurn sends in as one user message together with the whole history and
// returns the assistant's reply. Both messages are appended to the history
// only when the exchange succeeds, so a failed turn leaves it unchanged.
func RunTurn(ctx context.Context, s *State, in TurnInput) (parts.StopReason, parts.Message, error) {
	logger := getLogger(ctx).With("model", s.ModelID)
	content := in.blocks()
	if _, ok := in.(Prompt); ok {
		if pending := unansweredToolUses(&s.History, s.undelivered); len(pending) > 0 {
			logger.Warn("Answering interrupted tool uses", "count", len(pending))
			content = append(pending, content...)
		}
	}
	msg := parts.Message{Role: parts.RoleUser, Content: content}
	messages := append(s.History.Snapshot(), msg)
	logger.Debug("Sending turn", "history", len(messages), "message", msg)

	resp, err := s.Agent.Converse(ctx, messages)
	if err != nil {
		logger.Error("Model call failed", "error", err)
		return "", parts.Message{}, newServiceError(err)
	}
	if resp == nil || resp.Message == nil {
		logger.Error("No output message")
		return "", parts.Message{}, &ProtocolError{Reason: "no output message"}
	}
	if resp.Message.Role != parts.RoleAssistant {
		logger.Error("Reply is not from the assistant", "role", resp.Message.Role)
		return "", parts.Message{}, &ProtocolError{Reason: "reply role is " + string(resp.Message.Role)}
	}
	s.History.Append(msg)
	s.History.Append(*resp.Message)
	s.undelivered = nil
	logger.Debug("Received turn", "stop_reason", resp.StopReason, "message", *resp.Message)
	return resp.StopReason, *resp.Message, nil
}
