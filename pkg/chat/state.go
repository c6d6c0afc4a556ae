package chat

import (
	"io"

	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/config"
	"github.com/jmuk/recipes/pkg/tools"
)

// State is everything one conversation needs. It is owned by a single
// caller and passed explicitly; nothing in it is safe for concurrent use.
type State struct {
	ModelID      string
	SystemPrompt string
	Tools        []tools.ToolDefinition
	OutputRoot   string
	History      parts.History

	Agent    agent.Agent
	Registry *tools.Registry
	// Out receives the model's text and the notices of the loop.
	Out io.Writer

	MaxToolRounds int

	// undelivered holds the results of tools that ran for the last reply
	// but have not reached the model yet.
	undelivered []parts.ToolResult
}

func NewState(
	modelID string,
	systemPrompt string,
	ag agent.Agent,
	registry *tools.Registry,
	outputRoot string,
	out io.Writer,
) *State {
	return &State{
		ModelID:       modelID,
		SystemPrompt:  systemPrompt,
		Tools:         registry.Defs(),
		OutputRoot:    outputRoot,
		Agent:         ag,
		Registry:      registry,
		Out:           out,
		MaxToolRounds: config.DefaultMaxToolRounds,
	}
}

func (s *State) maxToolRounds() int {
	if s.MaxToolRounds <= 0 {
		return config.DefaultMaxToolRounds
	}
	return s.MaxToolRounds
}
