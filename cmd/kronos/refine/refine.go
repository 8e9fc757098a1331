// Package refinecmder provides the refine command, which annotates a timeline
// file with derived gaps, overlaps, and scene indices.
package refinecmder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/pkg/cliui"
	"github.com/kronoshq/kronos/pkg/timeline"
	"github.com/kronoshq/kronos/pkg/timeline/refine"
)

type refineCommander struct {
	compact bool
	output  string
}

const refineLongDesc string = `Compute the refined view of a timeline JSON file.

The refined view annotates each clip with its derived end time, the overlaps
it participates in, and a scene index, and reports per-track gap and overlap
windows. It is the same view the editing model sees as context.

Examples:
  kronos refine cut.json
  kronos refine cut.json --compact
  kronos refine cut.json -o refined.json`

const refineShortDesc string = "Annotate a timeline with gaps, overlaps, and scenes"

func NewRefineCmd() *cobra.Command {
	cmder := &refineCommander{}

	cmd := &cobra.Command{
		Use:   "refine <timeline.json>",
		Short: refineShortDesc,
		Long:  refineLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.run(args[0])
		},
	}

	cmd.Flags().BoolVarP(&cmder.compact, "compact", "c", false, "Strip null fields from the output")
	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func (c *refineCommander) run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading timeline file: %w", err)
	}

	t, err := timeline.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing timeline: %w", err)
	}

	refined := refine.Refine(t)

	var out []byte
	if c.compact {
		out, err = timeline.MarshalCompact(refined)
	} else {
		out, err = json.MarshalIndent(refined, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("serializing refined timeline: %w", err)
	}

	if c.output == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(c.output, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("%s Wrote refined timeline to %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(c.output))
	return nil
}
