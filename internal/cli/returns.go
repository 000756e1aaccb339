package cli

import (
	"fmt"

	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func NewReturnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "returns",
		Short: "Inspect items returned to you",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List returns waiting for your inspection",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadReturns(cmd)
			if err != nil {
				return err
			}
			printBookings(cmd.OutOrStdout(), v.Pending())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "approve <booking-id>",
		Short: "Accept a return and release the deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadReturns(cmd)
			if err != nil {
				return err
			}
			if err := v.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), v.Banner())
			return nil
		},
	})

	cmd.AddCommand(newReturnsRejectCmd())
	return cmd
}

func newReturnsRejectCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "reject <booking-id>",
		Short: "Reject a return, describing the damage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadReturns(cmd)
			if err != nil {
				return err
			}
			if err := v.Reject(cmd.Context(), args[0], notes); err != nil {
				return err
			}
			printBanner(cmd.OutOrStdout(), v.Banner())
			return nil
		},
	}

	cmd.Flags().StringVar(&notes, "notes", "", "what is wrong with the returned item")
	return cmd
}

func loadReturns(cmd *cobra.Command) (*view.OwnerReturnsView, error) {
	cliCtx, err := authed(cmd)
	if err != nil {
		return nil, err
	}
	v := view.NewOwnerReturnsView(cliCtx.Bookings)
	if err := v.Load(cmd.Context()); err != nil {
		return nil, fmt.Errorf("could not load pending returns: %w", err)
	}
	return v, nil
}
