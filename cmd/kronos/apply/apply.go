// Package applycmder provides the apply command, which runs a mutation batch
// against a timeline file.
package applycmder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/pkg/cliui"
	"github.com/kronoshq/kronos/pkg/mutation"
	"github.com/kronoshq/kronos/pkg/timeline"
)

type applyCommander struct {
	output string
}

const applyLongDesc string = `Apply a batch of mutations to a timeline JSON file.

The mutations file is a JSON array of mutation documents, each keyed by its
"type" field. The whole batch is validated before anything is applied, then
applied in order. The input file is never modified; the resulting timeline
is printed to stdout or written with --output.

Examples:
  kronos apply cut.json edits.json
  kronos apply cut.json edits.json -o cut-v2.json`

const applyShortDesc string = "Apply a mutation batch to a timeline"

func NewApplyCmd() *cobra.Command {
	cmder := &applyCommander{}

	cmd := &cobra.Command{
		Use:   "apply <timeline.json> <mutations.json>",
		Short: applyShortDesc,
		Long:  applyLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmder.run(args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&cmder.output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func (c *applyCommander) run(timelinePath, mutationsPath string) error {
	timelineData, err := os.ReadFile(timelinePath)
	if err != nil {
		return fmt.Errorf("reading timeline file: %w", err)
	}

	t, err := timeline.Parse(timelineData)
	if err != nil {
		return fmt.Errorf("parsing timeline: %w", err)
	}

	mutationData, err := os.ReadFile(mutationsPath)
	if err != nil {
		return fmt.Errorf("reading mutations file: %w", err)
	}

	mutations, err := mutation.UnmarshalBatch(mutationData)
	if err != nil {
		return fmt.Errorf("parsing mutations: %w", err)
	}

	result := mutation.ApplyAll(t, mutations).Sorted()

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing timeline: %w", err)
	}

	if c.output == "" {
		fmt.Println(string(out))
		return nil
	}

	if err := os.WriteFile(c.output, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("%s Applied %d mutation(s), wrote %s\n",
		cliui.SuccessMark,
		len(mutations),
		cliui.ValueStyle.Render(c.output),
	)
	return nil
}
