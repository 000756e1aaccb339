package cli

import (
	"fmt"
	"strings"

	"campus-rental-client/internal/domain"
	"campus-rental-client/internal/utils"
	"campus-rental-client/internal/view"

	"github.com/spf13/cobra"
)

func NewItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Browse and manage listings",
	}

	cmd.AddCommand(newItemsListCmd())
	cmd.AddCommand(newItemsShowCmd())
	cmd.AddCommand(newItemsMineCmd())
	cmd.AddCommand(newItemsCreateCmd())
	cmd.AddCommand(newItemsUpdateCmd())
	cmd.AddCommand(newItemsDeleteCmd())

	return cmd
}

func newItemsListCmd() *cobra.Command {
	var (
		category   string
		status     string
		search     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items for rent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}

			v := view.NewCatalogView(cliCtx.Catalog)
			v.SetFilter(domain.ItemFilter{
				Category: domain.ItemCategory(category),
				Status:   domain.ItemStatus(status),
				Search:   search,
			})
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), v.Items())
			}
			printItems(cmd.OutOrStdout(), v.Items())
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (Available, Rented, Maintenance)")
	cmd.Flags().StringVarP(&search, "search", "s", "", "search name, description and tags")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func newItemsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show an item, its booked dates and price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := mustContext(cmd)
			if err != nil {
				return err
			}

			v := view.NewItemDetailView(cliCtx.Catalog, cliCtx.Bookings, args[0])
			if err := v.Load(cmd.Context(), cliCtx.Session.Authenticated()); err != nil {
				return err
			}
			item := v.Item()
			w := cmd.OutOrStdout()

			tw := newTable(w)
			fmt.Fprintf(tw, "Item:\t%s (%s)\n", item.Name, item.ID)
			fmt.Fprintf(tw, "Category:\t%s\n", item.Category)
			fmt.Fprintf(tw, "Status:\t%s\n", item.Status)
			fmt.Fprintf(tw, "Price:\t%s per day\n", money(item.PricePerDayCents))
			fmt.Fprintf(tw, "Deposit:\t%s\n", money(item.DepositCents()))
			if item.Owner != nil {
				fmt.Fprintf(tw, "Owner:\t%s\n", item.Owner.Name)
			}
			if item.Location != "" {
				fmt.Fprintf(tw, "Location:\t%s\n", item.Location)
			}
			if len(item.Features) > 0 {
				fmt.Fprintf(tw, "Features:\t%s\n", strings.Join(item.Features, ", "))
			}
			if cliCtx.Session.Authenticated() {
				fmt.Fprintf(tw, "Wishlisted:\t%t\n", v.Wishlisted())
			}
			tw.Flush()

			if item.Description != "" {
				fmt.Fprintf(w, "\n%s\n", item.Description)
			}

			booked := v.Session().Booked
			if len(booked) > 0 {
				fmt.Fprintln(w, "\nBooked:")
				for _, r := range booked {
					fmt.Fprintf(w, "  %s to %s\n", r.StartDate, r.EndDate)
				}
			}
			return nil
		},
	}
}

func newItemsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			items, err := cliCtx.Catalog.ListMyItems(cmd.Context())
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

// itemFormFlags binds the listing form to flags; amounts are typed as
// decimals.
type itemFormFlags struct {
	form     domain.ItemForm
	category string
	status   string
	price    string
	deposit  string
}

func (f *itemFormFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.form.Name, "name", "", "item name")
	cmd.Flags().StringVar(&f.form.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.category, "category", "", "category: "+categoryList())
	cmd.Flags().StringVar(&f.status, "status", "", "Available, Rented or Maintenance")
	cmd.Flags().StringVar(&f.price, "price", "", "price per day, e.g. 150 or 149.50")
	cmd.Flags().StringVar(&f.deposit, "deposit", "", "refundable deposit")
	cmd.Flags().StringVar(&f.form.Location, "location", "", "pickup location")
	cmd.Flags().StringSliceVar(&f.form.Tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringSliceVar(&f.form.Features, "feature", nil, "feature (repeatable)")
}

func (f *itemFormFlags) build() (domain.ItemForm, error) {
	form := f.form
	form.Category = domain.ItemCategory(f.category)
	form.Status = domain.ItemStatus(f.status)
	if f.price != "" {
		cents, err := utils.ParseCents(f.price)
		if err != nil {
			return form, fmt.Errorf("--price: %w", err)
		}
		form.PricePerDayCents = cents
	}
	if f.deposit != "" {
		cents, err := utils.ParseCents(f.deposit)
		if err != nil {
			return form, fmt.Errorf("--deposit: %w", err)
		}
		form.BaseDepositCents = &cents
	}
	return form, nil
}

func categoryList() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func newItemsCreateCmd() *cobra.Command {
	var flags itemFormFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a new item for rent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			form, err := flags.build()
			if err != nil {
				return err
			}
			item, err := cliCtx.Catalog.CreateItem(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listed %s (%s).\n", item.Name, item.ID)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

func newItemsUpdateCmd() *cobra.Command {
	var flags itemFormFlags

	cmd := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Edit one of your listings",
		Long:  `Edit a listing. Fields not given keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			current, err := cliCtx.Catalog.GetItem(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			changes, err := flags.build()
			if err != nil {
				return err
			}

			item, err := cliCtx.Catalog.UpdateItem(cmd.Context(), args[0], mergeForm(current, changes))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s.\n", item.Name)
			return nil
		},
	}

	flags.bind(cmd)
	return cmd
}

// mergeForm overlays the non-empty fields of changes on the current item.
func mergeForm(current *domain.Item, changes domain.ItemForm) domain.ItemForm {
	form := domain.ItemForm{
		Name:             current.Name,
		Description:      current.Description,
		Category:         current.Category,
		PricePerDayCents: current.PricePerDayCents,
		BaseDepositCents: current.BaseDepositCents,
		Status:           current.Status,
		Location:         current.Location,
		Tags:             current.Tags,
		Features:         current.Features,
	}
	if changes.Name != "" {
		form.Name = changes.Name
	}
	if changes.Description != "" {
		form.Description = changes.Description
	}
	if changes.Category != "" {
		form.Category = changes.Category
	}
	if changes.PricePerDayCents != 0 {
		form.PricePerDayCents = changes.PricePerDayCents
	}
	if changes.BaseDepositCents != nil {
		form.BaseDepositCents = changes.BaseDepositCents
	}
	if changes.Status != "" {
		form.Status = changes.Status
	}
	if changes.Location != "" {
		form.Location = changes.Location
	}
	if changes.Tags != nil {
		form.Tags = changes.Tags
	}
	if changes.Features != nil {
		form.Features = changes.Features
	}
	return form
}

func newItemsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Remove one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := authed(cmd)
			if err != nil {
				return err
			}
			if !confirm(cmd, "Delete listing "+args[0]+"?", yes) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if err := cliCtx.Catalog.DeleteItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Listing deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}
