package cmd

import (
	"github.com/loft-sh/log"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/cmd/flags"
	"github.com/userjam/userjam-go/pkg/config"
)

// AuthCmd holds the auth cmd flags
type AuthCmd struct {
	*flags.GlobalFlags
}

// NewAuthCmd creates a new command
func NewAuthCmd(flags *flags.GlobalFlags) *cobra.Command {
	cmd := &AuthCmd{
		GlobalFlags: flags,
	}
	authCmd := &cobra.Command{
		Use:   "auth <key>",
		Short: "Saves the tracking key to the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Run(args[0])
		},
	}

	return authCmd
}

// Run runs the command logic
func (cmd *AuthCmd) Run(key string) error {
	configPath := cmd.Config
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return err
		}
	}

	userjamConfig, err := config.LoadConfigFile(configPath)
	if err != nil {
		log.Default.Warnf("Replacing unreadable config %s: %v", configPath, err)
		userjamConfig = &config.Config{}
	}

	userjamConfig.Key = key
	err = config.SaveConfig(configPath, userjamConfig)
	if err != nil {
		return err
	}

	log.Default.Donef("Saved tracking key to %s", configPath)
	return nil
}
