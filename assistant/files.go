package assistant

import (
	"errors"
	"fmt"

	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/store"
	"github.com/beatty/myagent/tool"
)

type writeFileArgs struct {
	Filename string `json:"filename" jsonschema:"description=Name of the file to write"`
	Content  string `json:"content" jsonschema:"description=Text content to write to the file"`
}

// NewWriteFileTool persists text through the dual-backend file store.
func NewWriteFileTool(files *store.FileStore) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		"write_file",
		"Write text content to a file.",
		writeFileArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			name := stringArg(args, "filename")
			content := stringArg(args, "content")
			if err := files.Write(tc.Context(), tc.SessionID(), name, []byte(content)); err != nil {
				tc.Logger().Error("assistant.write_file.failed", "filename", name, "error", err.Error())
				return map[string]any{
					"status":      "error",
					"disposition": fmt.Sprintf("could not write %s", name),
				}, nil
			}
			return map[string]any{
				"status":      "success",
				"disposition": fmt.Sprintf("wrote %d bytes to %s", len(content), name),
			}, nil
		},
	)
}

type readFileArgs struct {
	Filename string `json:"filename" jsonschema:"description=Name of the file to read"`
}

// NewReadFileTool reads a file and returns its content, base64 encoded when
// the MIME type is binary.
func NewReadFileTool(files *store.FileStore) *tool.FunctionTool {
	return tool.NewFunctionToolFromStruct(
		"read_file",
		"Read the content of a file.",
		readFileArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			name := stringArg(args, "filename")
			res, err := files.Read(tc.Context(), tc.SessionID(), name)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return map[string]any{
						"status":      "error",
						"disposition": fmt.Sprintf("file not found: %s", name),
					}, nil
				}
				tc.Logger().Error("assistant.read_file.failed", "filename", name, "error", err.Error())
				return map[string]any{
					"status":      "error",
					"disposition": fmt.Sprintf("could not read %s", name),
				}, nil
			}

			content, encoding := store.EncodeContent(res.Data, res.MIMEType)
			return map[string]any{
				"status":    "success",
				"filename":  res.Name,
				"mime_type": res.MIMEType,
				"encoding":  encoding,
				"content":   content,
			}, nil
		},
	)
}

// NewListFilesTool lists the files visible to the assistant across both
// storage backends.
func NewListFilesTool(files *store.FileStore) *tool.FunctionTool {
	return tool.NewFunctionTool(
		"list_files",
		"List the files available to the assistant.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(tc *core.ToolContext, _ map[string]any) (any, error) {
			names, err := files.List(tc.Context(), tc.SessionID())
			if err != nil {
				tc.Logger().Error("assistant.list_files.failed", "error", err.Error())
				return map[string]any{
					"status":      "error",
					"disposition": "could not list files",
				}, nil
			}
			return map[string]any{
				"status": "success",
				"files":  names,
				"count":  len(names),
			}, nil
		},
	)
}
