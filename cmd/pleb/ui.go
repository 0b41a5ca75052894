package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pleborg/pleb/internal/dashboard"
	"github.com/pleborg/pleb/internal/logging"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the live managed-issue dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			logging.Suppress()
			return dashboard.Run(func(ctx context.Context) ([]dashboard.Row, error) {
				return fetchRows(ctx, a)
			})
		},
	}
}
