package chat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	for _, tc := range []struct {
		line    string
		want    command
		wantArg string
	}{
		{"", commandNone, ""},
		{"   ", commandNone, ""},
		{"I like soup", commandSay, "I like soup"},
		{"  vegan please  ", commandSay, "vegan please"},
		{"/say dessert", commandSay, "dessert"},
		{"/SAY  dessert  ", commandSay, "dessert"},
		{"/say", commandNone, ""},
		{"/q", commandQuit, ""},
		{"/quit", commandQuit, ""},
		{"/help", commandList, ""},
		{"/?", commandList, ""},
		{"/models", commandModels, ""},
		{"/backends", commandBackends, ""},
		{"/session 123", commandUnknown, "session"},
	} {
		t.Run(tc.line, func(t *testing.T) {
			got, arg := parseCommand(tc.line)
			if got != tc.want || arg != tc.wantArg {
				t.Errorf("parseCommand(%q) = (%v, %q), want (%v, %q)", tc.line, got, arg, tc.want, tc.wantArg)
			}
		})
	}
}

func TestHandleListCommand(t *testing.T) {
	var buf bytes.Buffer
	handleListCommand(&buf)
	for _, cmd := range knownCommands {
		if !strings.Contains(buf.String(), cmd) {
			t.Errorf("help does not mention %s:\n%s", cmd, buf.String())
		}
	}
}

func TestCommandCompleter(t *testing.T) {
	c := newCombinedCompleter()
	for _, tc := range []struct {
		line       string
		want       []string
		wantLength int
	}{
		{"/", []string{"say", "quit", "help", "models", "backends"}, 1},
		{"/s", []string{"ay"}, 2},
		{"  /mo", []string{"dels"}, 3},
		{"/x", nil, 2},
		{"hello /s", nil, 0},
		{"/say hi", nil, 0},
		{"", nil, 0},
	} {
		t.Run(tc.line, func(t *testing.T) {
			line := []rune(tc.line)
			got, length := c.Do(line, len(line))
			var gotStrs []string
			for _, r := range got {
				gotStrs = append(gotStrs, string(r))
			}
			if diff := cmp.Diff(tc.want, gotStrs); diff != "" {
				t.Errorf("Do(%q) mismatch (-want +got):\n%s", tc.line, diff)
			}
			if length != tc.wantLength {
				t.Errorf("Do(%q) length = %d, want %d", tc.line, length, tc.wantLength)
			}
		})
	}
}
