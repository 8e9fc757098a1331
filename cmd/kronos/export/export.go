// Package exportcmder provides the export command, which renders a timeline
// as a CMX-style EDL cut list.
package exportcmder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/pkg/cliui"
	"github.com/kronoshq/kronos/pkg/config"
	"github.com/kronoshq/kronos/pkg/export"
	"github.com/kronoshq/kronos/pkg/timeline"
)

type exportCommander struct {
	title     string
	frameRate float64
	output    string
}

const exportLongDesc string = `Export the visual track of a timeline as a CMX-style EDL cut list.

Each visual clip becomes one numbered event with source and record timecodes
derived from the clip's position at the chosen frame rate. Rates of 29.97 and
59.94 are flagged drop frame.

The frame rate defaults to the export.frame_rate config key.

Examples:
  kronos export cut.json
  kronos export cut.json --frame-rate 24 -o cut.edl
  kronos export cut.json --title "Rough Cut"`

const exportShortDesc string = "Export a timeline as an EDL cut list"

func NewExportCmd() *cobra.Command {
	cmder := &exportCommander{}

	cmd := &cobra.Command{
		Use:   "export <timeline.json>",
		Short: exportShortDesc,
		Long:  exportLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("frame-rate") {
				cmder.frameRate = float64(cfg.Export.FrameRate)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.run(args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "EDL title (defaults to the timeline file name)")
	cmd.Flags().Float64VarP(&cmder.frameRate, "frame-rate", "r", export.DefaultFrameRate, "Timecode frame rate")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func (c *exportCommander) run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading timeline file: %w", err)
	}

	t, err := timeline.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing timeline: %w", err)
	}

	title := c.title
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	edl := export.GenerateEDL(t, title, c.frameRate)

	if c.output == "" {
		fmt.Print(edl)
		return nil
	}

	if err := os.WriteFile(c.output, []byte(edl), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("%s Wrote EDL to %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(c.output))
	return nil
}
