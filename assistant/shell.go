package assistant

import (
	"github.com/beatty/myagent/command"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/tool"
)

type executeCommandArgs struct {
	Command string `json:"command" jsonschema:"description=Shell command to execute"`
}

// NewExecuteCommandTool runs a shell command through the bounded executor.
// The child process streams are returned to the model verbatim; the tool
// performs no sandboxing or filtering. See the command package docs for the
// trust boundary.
func NewExecuteCommandTool(exec *command.Executor) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		"execute_command",
		"Execute a shell command and return its output.",
		executeCommandArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			res := exec.Run(tc.Context(), stringArg(args, "command"))

			record := map[string]any{
				"status":  string(res.Status),
				"command": res.Command,
				"stdout":  res.Stdout,
				"stderr":  res.Stderr,
			}
			if res.ExitCode != nil {
				record["return_code"] = *res.ExitCode
			}
			return record, nil
		},
	)
}
