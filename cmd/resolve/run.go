package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/order-resolution-service/internal/fixture"
	"github.com/spec-kit/order-resolution-service/internal/service"
	"github.com/spec-kit/order-resolution-service/pkg/clock"
)

type runOptions struct {
	now  string
	note bool
	html bool
	ai   bool
}

func newRunCmd(c clock.Clock) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run FIXTURE",
		Short: "Resolve the fixture's ticket and print the result",
		Long: `Resolves the ticket in FIXTURE against its candidate orders and prints the
resolution result as JSON. --note and --ai print the agent note or the
reply drafting context instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], opts, c)
		},
	}
	cmd.Flags().StringVar(&opts.now, "now", "", "reference time (RFC 3339), overrides the fixture's now")
	cmd.Flags().BoolVar(&opts.note, "note", false, "print the internal note as Markdown")
	cmd.Flags().BoolVar(&opts.html, "html", false, "with --note, render the note as HTML")
	cmd.Flags().BoolVar(&opts.ai, "ai", false, "print the plain text AI context")
	return cmd
}

func runResolve(cmd *cobra.Command, path string, opts *runOptions, c clock.Clock) error {
	req, err := fixture.Load(path)
	if err != nil {
		return err
	}
	if opts.now != "" {
		now, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("parsing --now: %w", err)
		}
		req.Now = &now
	}

	ticket, now, err := req.Normalize(c.Now())
	if err != nil {
		return err
	}
	result := service.Evaluate(ticket, req.Candidates, req.Fulfillments, now)

	out := cmd.OutOrStdout()
	switch {
	case opts.note:
		note := service.RenderInternalNote(result.FulfillmentSummary)
		if opts.html {
			if note, err = service.RenderInternalNoteHTML(note); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, note)
	case opts.ai:
		fmt.Fprintln(out, service.RenderAIContext(result.FulfillmentSummary))
	default:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	}
	return nil
}
