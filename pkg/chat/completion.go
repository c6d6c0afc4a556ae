package chat

import (
	"strings"
	"unicode"
)

type completer interface {
	triggerChar(line []rune, pos int) int
	complete(prefix string) []string
}

type commandCompleter struct {
}

var knownCommands = []string{
	"say",
	"quit",
	"help",
	"models",
	"backends",
}

func (cc *commandCompleter) triggerChar(line []rune, pos int) int {
	i := 0
	if len(line) == 0 {
		return -1
	}
	for ; i < pos; i++ {
		if line[i] == '/' {
			break
		} else if !unicode.IsSpace(line[i]) {
			return -1
		}
	}
	if i >= pos {
		return -1
	}
	result := i
	for i++; i < pos; i++ {
		if !unicode.IsGraphic(line[i]) || unicode.IsSpace(line[i]) {
			return -1
		}
	}
	return result
}

func (cc *commandCompleter) complete(prefix string) []string {
	// the prefix includes the / char.
	prefix = prefix[1:]
	results := make([]string, 0, len(knownCommands))
	for _, cmd := range knownCommands {
		if strings.HasPrefix(cmd, prefix) {
			results = append(results, cmd[len(prefix):])
		}
	}
	return results
}

// combinedCompleter implements readline.AutoCompleter with the first
// completer triggered at the cursor.
type combinedCompleter struct {
	comps []completer
}

func (c *combinedCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	for _, cc := range c.comps {
		start := cc.triggerChar(line, pos)
		if start < 0 || start > pos {
			continue
		}
		length = pos - start
		prefix := string(line[start:pos])
		for _, result := range cc.complete(prefix) {
			newLine = append(newLine, []rune(result))
		}
		return newLine, length
	}
	return nil, 0
}

func newCombinedCompleter() *combinedCompleter {
	return &combinedCompleter{
		comps: []completer{
			&commandCompleter{},
		},
	}
}
