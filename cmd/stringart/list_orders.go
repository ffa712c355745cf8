package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anandology/stringart.in/internal/domain"
	"github.com/anandology/stringart.in/internal/repository"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listOrdersCmd = &cobra.Command{
	Use:   "list-orders",
	Short: "Print the most recent orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		limit, _ := cmd.Flags().GetInt("limit")

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		repo, err := repository.Open(ctx, cfg.Store)
		if err != nil {
			return fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
		}
		defer repo.Close()

		orders, err := repo.ListOrders(ctx, limit)
		if err != nil {
			return err
		}
		return renderOrders(cmd.OutOrStdout(), orders)
	},
}

func init() {
	listOrdersCmd.Flags().IntP("limit", "n", 20, "Number of orders to show (0 for all)")
}

func renderOrders(w io.Writer, orders []*domain.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No orders found.")
		return err
	}

	data := make([][]string, 0, len(orders))
	for _, o := range orders {
		items := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			items = append(items, fmt.Sprintf("%s x%d", item.Title, item.Quantity))
		}
		data = append(data, []string{
			o.OrderNumber,
			o.CreatedAt.Local().Format("2006-01-02 15:04"),
			o.TotalPrice.StringFixed(2),
			o.Customer.Name,
			o.Customer.Email,
			o.Customer.Phone,
			strings.Join(items, ", "),
			string(o.Status),
		})
	}

	table := tablewriter.NewTable(w)
	table.Header("Order", "Date", "Amount", "Customer", "Email", "Phone", "Items", "Status")
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
