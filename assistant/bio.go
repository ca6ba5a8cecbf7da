package assistant

import (
	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/tool"
)

// NewBioTool exposes the owner's identity fields to the model.
func NewBioTool(cfg *config.Config) *tool.FunctionTool {
	owner := cfg.Owner
	return tool.NewFunctionTool(
		"get_bio",
		"Retrieve information about the owner: name, email and bio.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(_ *core.ToolContext, _ map[string]any) (any, error) {
			return map[string]any{
				"status": "success",
				"name":   owner.Name,
				"email":  owner.Email,
				"bio":    owner.Bio,
			}, nil
		},
	)
}
