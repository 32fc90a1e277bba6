package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/order-resolution-service/internal/fixture"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FIXTURE",
		Short: "Check a fixture file against the fixture schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := fixture.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d candidates, %d fulfillments)\n",
				args[0], len(req.Candidates), len(req.Fulfillments))
			return nil
		},
	}
}
