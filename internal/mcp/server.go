package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/tools"
)

const (
	serverName      = "apple-mail-mcp"
	protocolVersion = "2024-11-05"
)

// Server represents the MCP server
type Server struct {
	version string
	logger  *logrus.Logger
	tools   *tools.Registry

	in  io.Reader
	out io.Writer
}

// NewServer creates a new MCP server instance over stdio.
func NewServer(version string, registry *tools.Registry, logger *logrus.Logger) *Server {
	return &Server{
		version: version,
		logger:  logger,
		tools:   registry,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting MCP server with stdio transport")

	decoder := json.NewDecoder(s.in)
	encoder := json.NewEncoder(s.out)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			var req map[string]interface{}
			if err := decoder.Decode(&req); err != nil {
				if err == io.EOF {
					return nil
				}
				s.logger.WithError(err).Error("Failed to decode request")
				continue
			}

			resp := s.handleRequest(ctx, req)
			if resp == nil {
				// Notification; nothing to send back.
				continue
			}
			if err := encoder.Encode(resp); err != nil {
				s.logger.WithError(err).Error("Failed to encode response")
				continue
			}
		}
	}
}

// handleRequest processes an MCP request
func (s *Server) handleRequest(ctx context.Context, req map[string]interface{}) map[string]interface{} {
	method, _ := req["method"].(string)
	id, hasID := req["id"]
	if !hasID {
		return nil
	}

	switch method {
	case "initialize":
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"protocolVersion": protocolVersion,
				"capabilities": map[string]interface{}{
					"tools": map[string]interface{}{},
				},
				"serverInfo": map[string]interface{}{
					"name":    serverName,
					"version": s.version,
				},
			},
		}

	case "tools/list":
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      id,
			"result": map[string]interface{}{
				"tools": s.tools.GetToolDefinitions(),
			},
		}

	case "tools/call":
		return s.handleToolCall(ctx, id, req)

	default:
		return errorResponse(id, -32601, fmt.Sprintf("Method not found: %s", method))
	}
}

func (s *Server) handleToolCall(ctx context.Context, id interface{}, req map[string]interface{}) map[string]interface{} {
	params, _ := req["params"].(map[string]interface{})
	toolName, _ := params["name"].(string)
	arguments, _ := params["arguments"].(map[string]interface{})
	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	tool, exists := s.tools.GetTool(toolName)
	if !exists {
		return errorResponse(id, -32601, fmt.Sprintf("Tool not found: %s", toolName))
	}

	s.logger.WithField("tool", toolName).Debug("Executing tool")
	result, err := tool.Execute(ctx, arguments)
	if err != nil {
		s.logger.WithError(err).WithField("tool", toolName).Warn("Tool failed")
		return errorResponse(id, -32603, err.Error())
	}

	// Serialize result to JSON string for text content
	resultJSON, err := json.Marshal(result)
	if err != nil {
		resultJSON = []byte(fmt.Sprintf("%v", result))
	}

	return map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(resultJSON),
				},
			},
		},
	}
}

func errorResponse(id interface{}, code int, message string) map[string]interface{} {
	return map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
}
