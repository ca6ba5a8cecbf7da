package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/beatty/myagent"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session with the assistant",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			sessionID := uuid.NewString()
			fmt.Printf("%s ready. Type 'exit' to quit.\n", cfg.Agent.Name)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				answer, err := a.Run(cmd.Context(), sessionID, line)
				if err != nil {
					fmt.Println("Error:", err)
					continue
				}
				fmt.Println(answer)
			}
			return scanner.Err()
		},
	}
}
