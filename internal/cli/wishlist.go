package cli

import (
	"fmt"

	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func NewWishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage your wishlist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List wishlisted items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			items, err := cliCtx.Catalog.ListWishlist(cmd.Context())
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <item-id>",
		Short: "Add or remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			v := view.NewItemDetailView(cliCtx.Catalog, cliCtx.Bookings, args[0])
			if err := v.ToggleWishlist(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Banner().Message)
			return nil
		},
	})

	return cmd
}
