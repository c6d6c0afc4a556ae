package tools

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestMCPServer(t *testing.T) {
	ctx := context.Background()
	tr := &fakeTransmitter{}
	server := NewMCPServer(newTestRegistry(t, tr), "v0.0.1")

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ss.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer cs.Close()

	listed, err := cs.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(listed.Tools) != 1 || listed.Tools[0].Name != TransmitRecipeName {
		t.Fatalf("unexpected tools %+v", listed.Tools)
	}

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name: TransmitRecipeName,
		Arguments: map[string]any{
			ArgRecipeDetails: "pancakes",
			ArgFileStem:      "pancakes_4242",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool returned an error: %+v", res.Content)
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok || text.Text != "written output to /out/pancakes_4242" {
		t.Errorf("unexpected content %+v", res.Content)
	}
	if len(tr.calls) != 1 || tr.calls[0].imagePrompt != ArgDefault {
		t.Errorf("unexpected calls %+v", tr.calls)
	}
}
