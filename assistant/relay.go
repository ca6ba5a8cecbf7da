package assistant

import (
	"fmt"

	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/relay"
	"github.com/beatty/myagent/tool"
)

type relayMessageArgs struct {
	SenderEmail string `json:"sender_email" jsonschema:"description=Email address of the person sending the message"`
	Priority    string `json:"priority" jsonschema:"description=Priority of the message (low / normal / high)"`
	Message     string `json:"message" jsonschema:"description=The message to relay to the owner"`
}

// NewRelayMessageTool persists a message addressed to the owner as a record
// file. Delivery faults are logged and reported as a safe failure record.
func NewRelayMessageTool(cfg *config.Config, messages *relay.Store) *tool.FunctionTool {
	owner := cfg.Owner
	return tool.NewFunctionToolFromStruct(
		"relay_message",
		"Relay a message from the user to the owner.",
		relayMessageArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			msg := relay.Message{
				SenderEmail: stringArg(args, "sender_email"),
				Priority:    stringArg(args, "priority"),
				Body:        stringArg(args, "message"),
				OwnerName:   owner.Name,
			}
			if _, err := messages.Save(msg); err != nil {
				tc.Logger().Error("assistant.relay.failed", "error", err.Error())
				return map[string]any{
					"status":      "error",
					"disposition": "the message could not be delivered right now",
				}, nil
			}
			return map[string]any{
				"status":      "success",
				"disposition": "the message was relayed to the owner",
			}, nil
		},
	)
}

type requestMeetingArgs struct {
	Topic    string `json:"topic" jsonschema:"description=What the meeting is about"`
	DateTime string `json:"date_time" jsonschema:"description=Proposed date and time for the meeting"`
}

// NewRequestMeetingTool records a meeting request for the owner. The request
// is persisted through the same message store so the owner reviews meetings
// and messages in one place.
func NewRequestMeetingTool(cfg *config.Config, messages *relay.Store) *tool.FunctionTool {
	owner := cfg.Owner
	return tool.NewFunctionToolFromStruct(
		"request_meeting",
		"Request a meeting with the owner.",
		requestMeetingArgs{},
		func(tc *core.ToolContext, args map[string]any) (any, error) {
			msg := relay.Message{
				Priority:  "meeting-request",
				Body:      fmt.Sprintf("Meeting requested about %q at %s", stringArg(args, "topic"), stringArg(args, "date_time")),
				OwnerName: owner.Name,
			}
			if _, err := messages.Save(msg); err != nil {
				tc.Logger().Error("assistant.meeting.failed", "error", err.Error())
				return map[string]any{
					"status":      "error",
					"disposition": "the meeting request could not be recorded right now",
				}, nil
			}
			return map[string]any{
				"status":      "success",
				"disposition": "I've sent the meeting request to the owner.",
			}, nil
		},
	)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
