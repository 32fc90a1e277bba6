package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/order-resolution-service/pkg/clock"
)

// Version is set via ldflags at build time.
var Version = "dev"

func newRootCmd() *cobra.Command {
	return newRootCmdWithClock(clock.NewReal())
}

func newRootCmdWithClock(c clock.Clock) *cobra.Command {
	root := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve support tickets to orders from local fixtures",
		Long: `resolve runs the order matcher and fulfillment summarizer over a JSON or
YAML fixture holding a ticket, its customer's candidate orders and any
fulfillment records. No store or helpdesk is contacted.`,
		SilenceUsage: true,
		Version:      Version,
	}
	root.AddCommand(newRunCmd(c), newValidateCmd())
	return root
}
