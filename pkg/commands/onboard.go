package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func addOnboard(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Mark first-run onboarding as done",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService()
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := context.Background()
			done, err := s.Onboarded(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if done {
				fmt.Println("already onboarded")
				return nil
			}
			if err := s.CompleteOnboarding(ctx); err != nil {
				return oo.HandleError(err)
			}
			fmt.Println("onboarding complete")
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
