package commands

import (
	"tableflip.dev/visado/pkg/app"
	"tableflip.dev/visado/pkg/notify"
	"tableflip.dev/visado/pkg/remind"
	"tableflip.dev/visado/pkg/store"
)

// newService wires the store, OS notifier, and orchestrator for one command
// invocation. Each CLI run is a single user action, so operations are
// naturally serialized.
func newService() (*app.Service, error) {
	p, err := store.Load(nil)
	if err != nil {
		return nil, err
	}
	return &app.Service{
		Persistence:  p,
		Orchestrator: &remind.Orchestrator{Notifier: notify.NewDesktop()},
	}, nil
}
