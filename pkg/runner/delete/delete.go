// Package delete provides the runner logic for removing a visa record and
// cancelling its reminders.
package delete

import (
	"context"
	"fmt"

	"tableflip.dev/visado/pkg/app"
)

// Delete removes the record with the given id. Its live reminder handles
// are cancelled as part of the same operation.
type Delete struct {
	ID      string
	Service *app.Service
}

func (n *Delete) Do(ctx context.Context) error {
	if err := n.Service.DeleteVisa(ctx, n.ID); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", n.ID)
	return nil
}
