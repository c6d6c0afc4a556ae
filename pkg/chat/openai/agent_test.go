package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmuk/recipes/pkg/chat/agent"
	"github.com/jmuk/recipes/pkg/chat/parts"
	"github.com/jmuk/recipes/pkg/tools"
)

const toolCallReply = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-test",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "Saving it now.",
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "transmit_recipe", "arguments": "{\"file_stem\":\"toast_1234\",\"recipe_details\":\"toast\"}"}
      }]
    }
  }]
}`

func newTestAgent(t *testing.T, handler http.HandlerFunc) agent.Agent {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := &Config{ConfigName: "test", BaseURL: srv.URL + "/v1/", APIKey: "test-key"}
	a, err := c.NewAgent(context.Background(), "gpt-test", "be brief", []tools.ToolDefinition{tools.TransmitRecipe(nil)})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestConverse(t *testing.T) {
	var got map[string]any
	a := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("content-type", "application/json")
		io.WriteString(w, toolCallReply)
	})

	history := []parts.Message{
		{Role: parts.RoleUser, Content: []parts.Block{parts.Text{Text: "hi"}}},
		{Role: parts.RoleAssistant, Content: []parts.Block{
			parts.ToolUse{ID: "call_0", Name: "transmit_recipe", Input: map[string]any{"file_stem": "a"}},
		}},
		{Role: parts.RoleUser, Content: []parts.Block{
			parts.ToolResult{ToolUseID: "call_0", Name: "transmit_recipe", Content: "written output to /tmp/a"},
		}},
	}
	resp, err := a.Converse(context.Background(), history)
	if err != nil {
		t.Fatal(err)
	}

	msgs, _ := got["messages"].([]any)
	var roles []string
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	if diff := cmp.Diff([]string{"system", "user", "assistant", "tool"}, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if got["model"] != "gpt-test" {
		t.Errorf("model = %v", got["model"])
	}

	want := &agent.Response{
		StopReason: parts.StopToolUse,
		Message: &parts.Message{
			Role: parts.RoleAssistant,
			Content: []parts.Block{
				parts.Text{Text: "Saving it now."},
				parts.ToolUse{ID: "call_1", Name: "transmit_recipe", Input: map[string]any{
					"file_stem":      "toast_1234",
					"recipe_details": "toast",
				}},
			},
		},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestConverseAPIError(t *testing.T) {
	a := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"message":"unknown model","type":"invalid_request_error"}}`)
	})
	_, err := a.Converse(context.Background(), []parts.Message{
		{Role: parts.RoleUser, Content: []parts.Block{parts.Text{Text: "hi"}}},
	})
	var apiErr *agent.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *agent.APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestStopReason(t *testing.T) {
	for finish, want := range map[string]parts.StopReason{
		"stop":           parts.StopEndTurn,
		"tool_calls":     parts.StopToolUse,
		"length":         parts.StopMaxTokens,
		"content_filter": parts.StopContentFiltered,
		"something_new":  parts.StopUnknown,
	} {
		if got := stopReason(finish); got != want {
			t.Errorf("stopReason(%q) = %s, want %s", finish, got, want)
		}
	}
}

func TestToMessageParamsOnlyUnsendableContent(t *testing.T) {
	got, err := toMessageParams(parts.Message{Role: parts.RoleAssistant, Content: []parts.Block{
		parts.Other{Type: parts.KindGuardrail, Detail: "refused"},
	}}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].OfAssistant == nil {
		t.Fatalf("got %d messages, want one assistant message", len(got))
	}
	if content := got[0].OfAssistant.Content.OfString.Value; content != parts.OmittedContent {
		t.Errorf("content = %q, want %q", content, parts.OmittedContent)
	}
}
