// Package cli implements the myagent command line interface.
package cli

import (
	"fmt"

	"github.com/beatty/myagent/config"
	"github.com/beatty/myagent/logging"
	"github.com/beatty/myagent/model"
	"github.com/beatty/myagent/model/anthropic"
	"github.com/beatty/myagent/model/openai"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "myagent",
		Short:         "Personal assistant agent that acts on behalf of its owner",
		Long:          "myagent runs a configurable personal assistant that relays messages,\nmanages files and executes commands on behalf of its owner.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newToolsCmd())

	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Println("Error:", err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func newLogger() logging.Logger {
	cfg := logging.DefaultConfig()
	if verbose {
		cfg.Level = logging.LogLevelDebug
	}
	return logging.NewSlogLogger(cfg)
}

// newModel instantiates the model adapter named by the configuration.
func newModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Agent.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Agent.Model != "" {
				o.Model = cfg.Agent.Model
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Agent.Model != "" {
				o.Model = cfg.Agent.Model
			}
		}), nil
	case "mock":
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Agent.Provider)
	}
}
