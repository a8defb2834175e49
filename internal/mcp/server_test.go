package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/internal/bridge/bridgetest"
	"github.com/sebbaker/apple-mcp/internal/config"
	"github.com/sebbaker/apple-mcp/internal/mail"
	"github.com/sebbaker/apple-mcp/internal/tools"
)

func newTestServer() (*Server, *bridgetest.Fake) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	fake := bridgetest.New()
	fake.AddMailbox("Work", "Inbox")

	directory := mail.NewDirectory(fake, logger)
	locator := mail.NewLocator(fake, logger)
	registry := tools.NewRegistry(tools.Deps{
		Config:    &config.Config{},
		Readiness: bridge.NewReadiness(fake, logger),
		Directory: directory,
		QueryEngine: mail.NewQueryEngine(fake, directory, mail.QueryEngineConfig{
			PerMailboxCap:  200,
			DefaultLimit:   25,
			FuzzyThreshold: 0.72,
		}, logger),
		Coordinator: mail.NewCoordinator(fake, directory, locator, logger),
		Composer: mail.NewComposer(fake, locator, mail.ComposerConfig{
			ReadAttempts: 1,
			ReadDelay:    time.Millisecond,
		}, logger),
		Logger: logger,
	})

	return NewServer("test", registry, logger), fake
}

func TestHandleRequest(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	t.Run("initialize reports protocol and server info", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(1), "method": "initialize",
		})
		require.NotNil(t, resp)
		result := resp["result"].(map[string]interface{})
		require.Equal(t, protocolVersion, result["protocolVersion"])
		info := result["serverInfo"].(map[string]interface{})
		require.Equal(t, serverName, info["name"])
		require.Equal(t, "test", info["version"])
	})

	t.Run("tools list returns every registered tool", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(2), "method": "tools/list",
		})
		result := resp["result"].(map[string]interface{})
		defs := result["tools"].([]map[string]interface{})
		require.Len(t, defs, 9)
	})

	t.Run("a notification without id gets no response", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "method": "notifications/initialized",
		})
		require.Nil(t, resp)
	})

	t.Run("an unknown method is a method-not-found error", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(3), "method": "resources/list",
		})
		errObj := resp["error"].(map[string]interface{})
		require.Equal(t, -32601, errObj["code"])
	})
}

func TestHandleToolCall(t *testing.T) {
	server, _ := newTestServer()
	ctx := context.Background()

	t.Run("a successful call wraps the result as text content", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(4), "method": "tools/call",
			"params": map[string]interface{}{
				"name":      "list_mailboxes",
				"arguments": map[string]interface{}{},
			},
		})
		result := resp["result"].(map[string]interface{})
		content := result["content"].([]map[string]interface{})
		require.Len(t, content, 1)
		require.Equal(t, "text", content[0]["type"])

		var payload struct {
			Success bool `json:"success"`
		}
		require.NoError(t, json.Unmarshal([]byte(content[0]["text"].(string)), &payload))
		require.True(t, payload.Success)
	})

	t.Run("an unknown tool is a tool-not-found error", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(5), "method": "tools/call",
			"params": map[string]interface{}{"name": "send_email"},
		})
		errObj := resp["error"].(map[string]interface{})
		require.Equal(t, -32601, errObj["code"])
	})

	t.Run("a tool failure is an internal error with the message", func(t *testing.T) {
		resp := server.handleRequest(ctx, map[string]interface{}{
			"jsonrpc": "2.0", "id": float64(6), "method": "tools/call",
			"params": map[string]interface{}{
				"name": "move_emails",
				"arguments": map[string]interface{}{
					"message_id": "1",
				},
			},
		})
		errObj := resp["error"].(map[string]interface{})
		require.Equal(t, -32603, errObj["code"])
		require.Contains(t, errObj["message"].(string), "target_account_name")
	})
}

func TestRunRoundTrip(t *testing.T) {
	server, _ := newTestServer()

	var out bytes.Buffer
	server.in = strings.NewReader(
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
			`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	server.out = &out

	require.NoError(t, server.Run(context.Background()))

	decoder := json.NewDecoder(&out)
	var responses []map[string]interface{}
	for {
		var resp map[string]interface{}
		if err := decoder.Decode(&resp); err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		responses = append(responses, resp)
	}
	require.Len(t, responses, 2)
	require.Equal(t, float64(1), responses[0]["id"])
	require.Equal(t, float64(2), responses[1]["id"])
}
