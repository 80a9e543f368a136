// Package mcpserver provides an MCP server that lets agent frameworks ask
// the human questions through a running hub. It runs in stdio mode as a
// child of the agent and bridges each tool call over the hub's unix socket.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/martinemde/askhub/internal/hubserver"
)

// AskInput is the input structure of the ask tool.
type AskInput struct {
	Mode     string `json:"mode"`
	Title    string `json:"title"`
	Text     string `json:"text,omitempty"`
	Default  string `json:"default,omitempty"`
	Blocking bool   `json:"blocking,omitempty"`
}

// AskOutput is the response structure of the ask tool.
type AskOutput struct {
	Status string            `json:"status"`
	Answer *hubserver.Answer `json:"answer,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Run starts the MCP server in stdio mode.
func Run(version string) error {
	s := server.NewMCPServer(
		"askhub",
		version,
		server.WithToolCapabilities(false),
	)

	tool := mcp.NewTool("ask",
		mcp.WithDescription("Ask the human a question through the askhub terminal"),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("Question mode: yesno, text, credentials, filename, download, or alert"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short heading shown to the user"),
		),
		mcp.WithString("text",
			mcp.Description("Optional longer body, markdown allowed"),
		),
		mcp.WithString("default",
			mcp.Description("Optional default: yes/no for yesno, initial field contents otherwise"),
		),
		mcp.WithBoolean("blocking",
			mcp.Description("Preempt the displayed question instead of queueing behind it"),
		),
	)

	s.AddTool(tool, handleAsk)

	return server.ServeStdio(s)
}

// handleAsk bridges one tool call to the hub.
func handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input AskInput
	inputBytes, err := json.Marshal(req.Params.Arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(inputBytes, &input); err != nil {
		return nil, fmt.Errorf("failed to parse ask input: %w", err)
	}

	client := hubserver.NewClient()
	if client == nil {
		return result(AskOutput{
			Status: hubserver.StatusError,
			Error:  "cannot reach the hub: " + hubserver.SocketEnvVar + " not set",
		})
	}

	resp, err := client.Ask(hubserver.Request{
		Mode:     input.Mode,
		Title:    input.Title,
		Text:     input.Text,
		Default:  input.Default,
		Blocking: input.Blocking,
	})
	if err != nil {
		return result(AskOutput{Status: hubserver.StatusError, Error: err.Error()})
	}

	return result(AskOutput{Status: resp.Status, Answer: resp.Answer})
}

func result(out AskOutput) (*mcp.CallToolResult, error) {
	outputBytes, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(outputBytes)), nil
}
