package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	del "tableflip.dev/visado/pkg/runner/delete"
)

func addDelete(topLevel *cobra.Command) {
	var id string

	cmd := &cobra.Command{
		Use:     "delete <record id>",
		Aliases: []string{"remove", "rm"},
		Short:   "Delete a visa and cancel its reminders",
		Example: `
visado delete 171dff69-f8b9-9dca-0000-000000000000
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a record id")
			}
			id = strings.TrimSpace(args[0])
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			n := del.Delete{ID: id, Service: s}
			return oo.HandleError(n.Do(context.Background()))
		},
	}

	topLevel.AddCommand(cmd)
}
