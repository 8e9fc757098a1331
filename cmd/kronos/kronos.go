// Package kronoscmder
package kronoscmder

import (
	"github.com/spf13/cobra"

	applycmder "github.com/kronoshq/kronos/cmd/kronos/apply"
	chatcmder "github.com/kronoshq/kronos/cmd/kronos/chat"
	configcmder "github.com/kronoshq/kronos/cmd/kronos/config"
	exportcmder "github.com/kronoshq/kronos/cmd/kronos/export"
	initcmder "github.com/kronoshq/kronos/cmd/kronos/init"
	refinecmder "github.com/kronoshq/kronos/cmd/kronos/refine"
	servecmder "github.com/kronoshq/kronos/cmd/kronos/serve"
	versioncmder "github.com/kronoshq/kronos/cmd/version"
)

const kronosLongDesc string = `Kronos is an agent-driven editor for two-track timelines.

Run the editing service using:
  kronos serve         Run the API and MCP server

Work with a running server using:
  kronos chat          Edit a timeline conversationally
  kronos config        Manage persistent configuration

Work with timeline files directly using:
  kronos refine        Annotate a timeline with gaps, overlaps, and scenes
  kronos apply         Apply a mutation batch to a timeline
  kronos export        Export a timeline as an EDL cut list`

const kronosShortDesc string = "Kronos - Agentic Timeline Editing"

func NewKronosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kronos",
		Short: kronosShortDesc,
		Long:  kronosLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: ./.kronos or ~/.kronos)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(refinecmder.NewRefineCmd())
	cmd.AddCommand(applycmder.NewApplyCmd())
	cmd.AddCommand(exportcmder.NewExportCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
