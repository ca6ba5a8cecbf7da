package cli

import (
	"fmt"
	"strings"

	"github.com/beatty/myagent"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the assistant a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			m, err := newModel(cfg)
			if err != nil {
				return err
			}

			a, err := myagent.New(cmd.Context(), cfg, m, func(o *myagent.Options) {
				o.Logger = newLogger()
			})
			if err != nil {
				return err
			}

			answer, err := a.Run(cmd.Context(), uuid.NewString(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(answer)
			return nil
		},
	}
}
