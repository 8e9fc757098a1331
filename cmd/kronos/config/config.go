// Package configcmder provides the config command for managing persistent
// kronos configuration stored in the .kronos/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent kronos configuration.

Configuration is stored as config.toml in the .kronos/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen, client.api_target,
  model.provider, model.target, model.name, model.max_turns,
  export.frame_rate

Use subcommands to get, set, or list configuration values:
  kronos config set <key> <value>    Set a configuration value
  kronos config get <key>            Get a configuration value
  kronos config list                 List all configuration values

Examples:
  kronos config set model.provider anthropic
  kronos config set model.name claude-sonnet-4-20250514
  kronos config get model.provider
  kronos config list`

const configShortDesc string = "Manage persistent kronos configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
