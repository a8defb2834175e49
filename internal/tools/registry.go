package tools

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sebbaker/apple-mcp/internal/bridge"
	"github.com/sebbaker/apple-mcp/internal/config"
	"github.com/sebbaker/apple-mcp/internal/mail"
)

// Tool represents an MCP tool
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

// Deps bundles what the tools need: the readiness capability plus the
// orchestration components.
type Deps struct {
	Config      *config.Config
	Readiness   *bridge.Readiness
	Directory   *mail.Directory
	QueryEngine *mail.QueryEngine
	Coordinator *mail.Coordinator
	Composer    *mail.Composer
	Logger      *logrus.Logger
}

// Registry manages MCP tools
type Registry struct {
	deps  Deps
	tools map[string]Tool
}

// NewRegistry creates a new tool registry
func NewRegistry(deps Deps) *Registry {
	reg := &Registry{
		deps:  deps,
		tools: make(map[string]Tool),
	}
	reg.registerTools()
	return reg
}

// registerTools registers all available tools
func (r *Registry) registerTools() {
	toolList := []Tool{
		NewListMailboxesTool(r.deps),
		NewListEmailsTool(r.deps),
		NewReadEmailsTool(r.deps),
		NewMarkEmailsReadTool(r.deps),
		NewMoveEmailsTool(r.deps),
		NewCopyEmailsTool(r.deps),
		NewArchiveEmailsTool(r.deps),
		NewTrashEmailsTool(r.deps),
		NewCreateDraftTool(r.deps),
	}

	for _, tool := range toolList {
		r.tools[tool.Name()] = tool
		r.deps.Logger.WithField("tool", tool.Name()).Debug("Registered tool")
	}

	r.deps.Logger.WithField("count", len(r.tools)).Info("Registered tools")
}

// GetTool returns a tool by name
func (r *Registry) GetTool(name string) (Tool, bool) {
	tool, exists := r.tools[name]
	return tool, exists
}

// GetToolDefinitions returns tool definitions for MCP
func (r *Registry) GetToolDefinitions() []map[string]interface{} {
	definitions := make([]map[string]interface{}, 0, len(r.tools))
	for _, tool := range r.tools {
		definitions = append(definitions, map[string]interface{}{
			"name":        tool.Name(),
			"description": tool.Description(),
			"inputSchema": tool.InputSchema(),
		})
	}
	return definitions
}
