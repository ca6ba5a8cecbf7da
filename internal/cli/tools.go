package cli

import (
	"fmt"

	"github.com/beatty/myagent"
	"github.com/beatty/myagent/model"
	"github.com/spf13/cobra"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools available to the assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// A mock model suffices; tools are listed without generation.
			a, err := myagent.New(cmd.Context(), cfg, model.NewMockModel("inspect"), func(o *myagent.Options) {
				o.Logger = newLogger()
			})
			if err != nil {
				return err
			}

			for _, t := range a.Tools() {
				fmt.Printf("%-18s %s\n", t.Name(), t.Description())
			}
			return nil
		},
	}
}
