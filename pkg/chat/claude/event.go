package claude

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/sse"
)

type eventType string

const (
	eventTypePing              eventType = "ping"
	eventTypeError             eventType = "error"
	eventTypeMessageStart      eventType = "message_start"
	eventTypeMessageDelta      eventType = "message_delta"
	eventTypeMessageStop       eventType = "message_stop"
	eventTypeContentBlockStart eventType = "content_block_start"
	eventTypeContentBlockDelta eventType = "content_block_delta"
	eventTypeContentBlockStop  eventType = "content_block_stop"
)

type deltaType string

const (
	deltaTypeText      deltaType = "text_delta"
	deltaTypeJSON      deltaType = "input_json_delta"
	deltaTypeThinking  deltaType = "thinking_delta"
	deltaTypeSignature deltaType = "signature_delta"
)

type contentBlockDelta struct {
	Type  eventType `json:"type"`
	Index int       `json:"index"`
	Delta struct {
		Type        deltaType `json:"type"`
		Text        string    `json:"text"`
		PartialJSON string    `json:"partial_json"`
		Thinking    string    `json:"thinking"`
	} `json:"delta"`
}

type blockType string

const (
	blockTypeText             blockType = "text"
	blockTypeToolUse          blockType = "tool_use"
	blockTypeThinking         blockType = "thinking"
	blockTypeRedactedThinking blockType = "redacted_thinking"
)

type contentBlock struct {
	Type         eventType `json:"type"`
	Index        int       `json:"index"`
	ContentBlock struct {
		Type blockType `json:"type"`

		Text string `json:"text"`

		ID    string         `json:"id"`
		Name  string         `json:"name"`
		Input map[string]any `json:"input"`

		Thinking string `json:"thinking"`
	} `json:"content_block"`
}

type messageStart struct {
	Message struct {
		ID    string     `json:"id"`
		Role  parts.Role `json:"role"`
		Model string     `json:"model"`
	} `json:"message"`
}

type messageDelta struct {
	Delta struct {
		StopReason string `json:"stop_reason"`
	} `json:"delta"`
}

// eventProcessor folds the streamed events into one assistant message.
type eventProcessor struct {
	scanner *sse.Scanner
	logger  *slog.Logger

	currentBlock *contentBlock
	partialJSON  string

	message    *parts.Message
	stopReason string
}

func newEventProcessor(reader io.Reader, logger *slog.Logger) *eventProcessor {
	return &eventProcessor{
		scanner: sse.NewScanner(reader),
		logger:  logger,
	}
}

func (ep *eventProcessor) processMessageStart(ev *sse.Event) error {
	ms := &messageStart{}
	if err := json.Unmarshal([]byte(ev.Data), ms); err != nil {
		return err
	}
	ep.logger.Debug("Message started", "id", ms.Message.ID, "model", ms.Message.Model)
	ep.message = &parts.Message{Role: ms.Message.Role}
	return nil
}

func (ep *eventProcessor) processContentBlockStart(ev *sse.Event) error {
	if ep.currentBlock != nil {
		return fmt.Errorf("content block start appears before closing a previous one")
	}
	ep.currentBlock = &contentBlock{}
	ep.partialJSON = ""
	return json.Unmarshal([]byte(ev.Data), ep.currentBlock)
}

func (ep *eventProcessor) processContentBlockDelta(ev *sse.Event) error {
	delta := &contentBlockDelta{}
	if err := json.Unmarshal([]byte(ev.Data), delta); err != nil {
		return err
	}
	cb := ep.currentBlock
	if cb == nil {
		return fmt.Errorf("missing content block start")
	}
	if cb.Index != delta.Index {
		return fmt.Errorf("index mismatch: want %d got %d", cb.Index, delta.Index)
	}
	switch delta.Delta.Type {
	case deltaTypeText:
		if cb.ContentBlock.Type != blockTypeText {
			return fmt.Errorf("type mismatch: want %s got text", cb.ContentBlock.Type)
		}
		cb.ContentBlock.Text += delta.Delta.Text
	case deltaTypeJSON:
		if cb.ContentBlock.Type != blockTypeToolUse {
			return fmt.Errorf("type mismatch: want %s got partial_json", cb.ContentBlock.Type)
		}
		ep.partialJSON += delta.Delta.PartialJSON
	case deltaTypeThinking:
		cb.ContentBlock.Thinking += delta.Delta.Thinking
	case deltaTypeSignature:
	default:
		ep.logger.Debug("Ignoring delta", "type", delta.Delta.Type)
	}
	return nil
}

func (ep *eventProcessor) processContentBlockStop() error {
	cb := ep.currentBlock
	if cb == nil {
		return fmt.Errorf("content_block_stop appears without start")
	}
	if ep.message == nil {
		return fmt.Errorf("content block before message_start")
	}
	ep.currentBlock = nil
	var block parts.Block
	switch cb.ContentBlock.Type {
	case blockTypeText:
		block = parts.Text{Text: cb.ContentBlock.Text}
	case blockTypeToolUse:
		input := cb.ContentBlock.Input
		if ep.partialJSON != "" {
			input = map[string]any{}
			if err := json.Unmarshal([]byte(ep.partialJSON), &input); err != nil {
				ep.logger.Warn("Malformed tool input", "tool", cb.ContentBlock.Name, "input", ep.partialJSON, "error", err)
				input = nil
			}
		}
		block = parts.ToolUse{
			ID:    cb.ContentBlock.ID,
			Name:  cb.ContentBlock.Name,
			Input: input,
		}
	case blockTypeThinking, blockTypeRedactedThinking:
		block = parts.Other{Type: parts.KindThinking, Detail: cb.ContentBlock.Thinking}
	default:
		block = parts.Other{Type: parts.KindUnknown, Detail: string(cb.ContentBlock.Type)}
	}
	ep.message.Content = append(ep.message.Content, block)
	return nil
}

func (ep *eventProcessor) processError(ev *sse.Event) error {
	eb := &errorBody{}
	if err := json.Unmarshal([]byte(ev.Data), eb); err != nil {
		return fmt.Errorf("stream error: %s", ev.Data)
	}
	return &agent.APIError{Type: eb.Error.Type, Message: eb.Error.Message}
}

func (ep *eventProcessor) process() (*agent.Response, error) {
	for {
		ev, err := ep.scanner.Scan()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch eventType(ev.Event) {
		case eventTypePing:
		case eventTypeError:
			return nil, ep.processError(ev)
		case eventTypeMessageStart:
			err = ep.processMessageStart(ev)
		case eventTypeContentBlockStart:
			err = ep.processContentBlockStart(ev)
		case eventTypeContentBlockDelta:
			err = ep.processContentBlockDelta(ev)
		case eventTypeContentBlockStop:
			err = ep.processContentBlockStop()
		case eventTypeMessageDelta:
			md := &messageDelta{}
			err = json.Unmarshal([]byte(ev.Data), md)
			if md.Delta.StopReason != "" {
				ep.stopReason = md.Delta.StopReason
			}
		case eventTypeMessageStop:
			return ep.response(), nil
		default:
			ep.logger.Debug("Ignoring event", "event", ev.Event)
		}
		if err != nil {
			return nil, err
		}
	}
	return ep.response(), nil
}

func (ep *eventProcessor) response() *agent.Response {
	return &agent.Response{
		StopReason: stopReason(ep.stopReason),
		Message:    ep.message,
	}
}

func stopReason(s string) parts.StopReason {
	switch s {
	case "end_turn":
		return parts.StopEndTurn
	case "tool_use":
		return parts.StopToolUse
	case "max_tokens":
		return parts.StopMaxTokens
	case "stop_sequence":
		return parts.StopSequence
	case "refusal":
		return parts.StopContentFiltered
	}
	return parts.StopUnknown
}
