package parts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHistory(t *testing.T) {
	var h History
	if _, ok := h.Last(); ok {
		t.Error("Last() of an empty history reported a message")
	}
	user := Message{Role: RoleUser, Content: []Block{Text{Text: "hi"}}}
	reply := Message{Role: RoleAssistant, Content: []Block{
		Text{Text: "hello"},
		ToolUse{ID: "1", Name: "transmit_recipe", Input: map[string]any{"file_stem": "x"}},
	}}
	h.Append(user)
	h.Append(reply)
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	snap := h.Snapshot()
	if diff := cmp.Diff([]Message{user, reply}, snap); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	snap[0] = Message{Role: RoleAssistant}
	if got := h.Snapshot()[0]; got.Role != RoleUser {
		t.Error("mutating a snapshot changed the history")
	}
	last, ok := h.Last()
	if !ok || last.Role != RoleAssistant {
		t.Errorf("Last() = %v, %v", last, ok)
	}
	if diff := cmp.Diff([]ToolUse{reply.Content[1].(ToolUse)}, last.ToolUses()); diff != "" {
		t.Errorf("ToolUses() mismatch (-want +got):\n%s", diff)
	}
}

func TestOtherKind(t *testing.T) {
	for _, tc := range []struct {
		b    Block
		want BlockKind
	}{
		{Text{}, KindText},
		{ToolUse{}, KindToolUse},
		{ToolResult{}, KindToolResult},
		{Other{Type: KindGuardrail}, KindGuardrail},
		{Other{}, KindUnknown},
	} {
		if got := tc.b.Kind(); got != tc.want {
			t.Errorf("%T.Kind() = %s, want %s", tc.b, got, tc.want)
		}
	}
}
