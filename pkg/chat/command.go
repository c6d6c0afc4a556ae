package chat

import (
	"fmt"
	"io"
	"strings"
)

type command int

const (
	commandNone command = iota
	commandSay
	commandQuit
	commandList
	commandModels
	commandBackends
	commandUnknown
)

// parseCommand splits line into its command and the rest of the line. A
// line without a leading slash is said to the model as is.
func parseCommand(line string) (command, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return commandNone, ""
	}
	if line[0] != '/' {
		return commandSay, line
	}
	name, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(name) {
	case "say":
		if rest == "" {
			return commandNone, ""
		}
		return commandSay, rest
	case "q", "quit", "exit":
		return commandQuit, rest
	case "commands", "help", "?":
		return commandList, rest
	case "models":
		return commandModels, rest
	case "backends":
		return commandBackends, rest
	}
	return commandUnknown, name
}

func handleListCommand(w io.Writer) {
	fmt.Fprintln(w, `List of possible commands:
- say <text>: send text to the model. A line without a leading / does the same.
- models: choose the model of the current backend.
- backends: choose the backend, then its model.
- help, commands, or ?: this command -- show the list of commands.
- q, quit: quit this program.`)
}
