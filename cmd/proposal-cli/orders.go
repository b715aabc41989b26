package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"siva-proposals-backend/internal/models"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Read orders from the record store",
	}
	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersGetCmd())
	return cmd
}

func ordersListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			orders, err := a.Service.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				out := make([]models.OrderResponse, len(orders))
				for i := range orders {
					out[i] = models.NewOrderResponse(&orders[i])
				}
				return printJSON(out)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCLIENT\tSTATUS\tIMAGES\tCREATED")
			for i := range orders {
				o := &orders[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
					o.ID, o.Client, o.EffectiveStatus(), o.Images.Count(), models.ImageSlotCount,
					o.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func ordersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			order, err := a.Service.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(models.NewOrderResponse(order))
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
