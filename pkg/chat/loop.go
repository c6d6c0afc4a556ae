package chat

import (
	"context"
	"fmt"

	"github.com/jmuk/recipes/pkg/chat/parts"
)

// Say runs one user prompt to completion: every tool the model asks for is
// dispatched and answered until a reply without tool use arrives.
func Say(ctx context.Context, s *State, prompt string) error {
	var in TurnInput = Prompt(prompt)
	for round := 0; ; round++ {
		stop, msg, err := RunTurn(ctx, s, in)
		if err != nil {
			return err
		}
		results, err := inspectReply(ctx, s, stop, msg, round < s.maxToolRounds())
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		in = ToolResults(results)
	}
}

// inspectReply prints the text of msg and runs its tool uses, in order.
// Without mayDispatch no tool is run and a reply asking for one fails with
// ErrTooManyToolRounds.
func inspectReply(ctx context.Context, s *State, stop parts.StopReason, msg parts.Message, mayDispatch bool) ([]parts.ToolResult, error) {
	logger := getLogger(ctx)
	s.undelivered = nil
	uses := msg.ToolUses()
	if err := s.Registry.Check(uses); err != nil {
		logger.Error("Tool mismatch", "error", err)
		return nil, err
	}
	if len(uses) > 0 && !mayDispatch {
		logger.Error("Too many tool rounds", "max_tool_rounds", s.maxToolRounds())
		return nil, ErrTooManyToolRounds
	}
	var results []parts.ToolResult
	for _, b := range msg.Content {
		switch b := b.(type) {
		case parts.Text:
			if b.Text != "" {
				fmt.Fprintln(s.Out, b.Text)
			}
		case parts.ToolUse:
			result, err := s.Registry.Dispatch(ctx, b)
			if err != nil {
				return nil, err
			}
			results = append(results, result)
			s.undelivered = results
		case parts.ToolResult:
			logger.Warn("Skipping a tool result sent by the model", "tool_use_id", b.ToolUseID)
		case parts.Other:
			logger.Warn("Skipping content", "kind", b.Kind(), "detail", b.Detail)
		default:
			logger.Warn("Skipping content", "kind", b.Kind())
		}
	}
	switch stop {
	case parts.StopMaxTokens:
		logger.Warn("Reply truncated")
		fmt.Fprintln(s.Out, "[the response was truncated: the model reached its output limit]")
	case parts.StopContentFiltered, parts.StopGuardrailIntervened:
		logger.Warn("Reply withheld", "stop_reason", stop)
		fmt.Fprintln(s.Out, "[the response was withheld by a content filter]")
	case parts.StopToolUse:
		if len(results) == 0 {
			logger.Warn("Stop reason is tool_use but the reply has no tool use")
		}
	}
	return results, nil
}
