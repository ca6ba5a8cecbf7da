package assistant

import (
	"strings"

	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/internal/util"
)

// personaTemplate is the base system instruction. Configuration supplies the
// names; free-text instruction and personality from the config are appended
// verbatim.
const personaTemplate = `I am {{.AgentName}}. I speak and act on behalf of {{.OwnerName}} according to their wishes. I can do various things, like relay messages to them, manage files, and run commands. Before using a tool, I make sure I have all the information I need, and I ask the user for any missing information.`

// BuildInstruction renders the full system instruction for the configured
// persona.
func BuildInstruction(cfg *config.Config) (string, error) {
	base, err := util.RenderTemplate(personaTemplate, map[string]any{
		"AgentName": cfg.Agent.Name,
		"OwnerName": cfg.Owner.Name,
	})
	if err != nil {
		return "", err
	}

	sections := []string{base}
	if cfg.Agent.Instruction != "" {
		sections = append(sections, cfg.Agent.Instruction)
	}
	if cfg.Agent.Personality != "" {
		sections = append(sections, "My personality: "+cfg.Agent.Personality)
	}
	return strings.Join(sections, "\n\n"), nil
}
