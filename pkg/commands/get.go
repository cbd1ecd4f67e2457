package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/visado/pkg/commands/options"
	"tableflip.dev/visado/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	out := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "get",
		Aliases: []string{"list", "ls"},
		Short:   "List visas, most urgent first",
		Example: `
visado get
visado get --show-id
visado get --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return out.HandleError(err)
			}
			n := get.Get{
				ShowID:  io.ShowID,
				JSON:    out.JSON,
				Service: s,
			}
			return out.HandleError(n.Do(context.Background()))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, out)

	topLevel.AddCommand(cmd)
}
