// Package parts defines the backend-neutral conversation data model: roles,
// content blocks, messages, stop reasons, and the append-only history.
package parts

import "fmt"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// BlockKind names the variant of a content block.
type BlockKind string

const (
	KindText       BlockKind = "text"
	KindToolUse    BlockKind = "tool_use"
	KindToolResult BlockKind = "tool_result"
	KindImage      BlockKind = "image"
	KindVideo      BlockKind = "video"
	KindDocument   BlockKind = "document"
	KindGuardrail  BlockKind = "guardrail"
	KindThinking   BlockKind = "thinking"
	KindUnknown    BlockKind = "unknown"
)

// Block is one piece of content within a message. The set of variants is
// closed: Text, ToolUse, ToolResult and Other.
type Block interface {
	Kind() BlockKind
	isBlock()
}

type Text struct {
	Text string `json:"text"`
}

func (Text) Kind() BlockKind { return KindText }
func (Text) isBlock()        {}

// ToolUse is a request from the model to run the named tool.
type ToolUse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

func (ToolUse) Kind() BlockKind { return KindToolUse }
func (ToolUse) isBlock()        {}

// ToolResult answers the ToolUse with the same ID. Name repeats the tool
// name since some backends correlate by name as well.
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

func (ToolResult) Kind() BlockKind { return KindToolResult }
func (ToolResult) isBlock()        {}

// Other is any content the loop does not act on: images, documents,
// guardrail annotations, thinking, or kinds unknown at build time.
type Other struct {
	Type   BlockKind `json:"type"`
	Detail string    `json:"detail,omitempty"`
}

func (o Other) Kind() BlockKind {
	if o.Type == "" {
		return KindUnknown
	}
	return o.Type
}
func (Other) isBlock() {}

// OmittedContent stands in for a message whose blocks cannot be sent back
// to a backend, such as a reply that held only a guardrail or thinking.
const OmittedContent = "[content omitted]"

type Message struct {
	Role    Role    `json:"role"`
	Content []Block `json:"content"`
}

// ToolUses returns the tool-use blocks of the message in order.
func (m Message) ToolUses() []ToolUse {
	var uses []ToolUse
	for _, b := range m.Content {
		if tu, ok := b.(ToolUse); ok {
			uses = append(uses, tu)
		}
	}
	return uses
}

func (m Message) String() string {
	return fmt.Sprintf("%s(%d blocks)", m.Role, len(m.Content))
}

// StopReason tells why the model stopped generating.
type StopReason string

const (
	StopEndTurn             StopReason = "end_turn"
	StopToolUse             StopReason = "tool_use"
	StopContentFiltered     StopReason = "content_filtered"
	StopMaxTokens           StopReason = "max_tokens"
	StopGuardrailIntervened StopReason = "guardrail_intervened"
	StopSequence            StopReason = "stop_sequence"
	StopUnknown             StopReason = "unknown"
)
