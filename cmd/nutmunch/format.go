package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/five82/nutmunch/internal/cart"
	"github.com/five82/nutmunch/internal/pricing"
	"github.com/five82/nutmunch/internal/storefront"
)

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func printProducts(w io.Writer, products []storefront.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.ID.String(),
			p.Name,
			p.Category,
			p.Weight,
			money(p.Price),
			strconv.Itoa(p.StockQuantity),
		})
	}
	printTable(w, []string{"ID", "NAME", "CATEGORY", "WEIGHT", "PRICE", "STOCK"}, rows)
}

func printCart(w io.Writer, s cart.State, q pricing.Quote) {
	if s.Empty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	rows := make([][]string, 0, s.LineCount())
	for _, line := range s.Lines {
		rows = append(rows, []string{
			line.ProductID.String(),
			line.Name,
			strconv.Itoa(line.Quantity),
			pricing.FormatMoney(line.UnitPrice),
			pricing.FormatMoney(line.LineTotal()),
		})
	}
	printTable(w, []string{"ID", "ITEM", "QTY", "EACH", "TOTAL"}, rows)

	shipping := pricing.FormatMoney(q.Shipping)
	if q.Shipping.IsZero() {
		shipping = "free"
	}
	fmt.Fprintf(w, "Subtotal  %s\n", pricing.FormatMoney(q.Subtotal))
	fmt.Fprintf(w, "Shipping  %s\n", shipping)
	fmt.Fprintf(w, "Est. tax  %s\n", pricing.FormatMoney(q.Tax))
	fmt.Fprintf(w, "Total     %s\n", pricing.FormatMoney(q.GrandTotal))
	if q.Remaining.IsPositive() {
		fmt.Fprintf(w, "Spend %s more for free shipping.\n", pricing.FormatMoney(q.Remaining))
	}
}

func money(price float64) string {
	return pricing.FormatMoney(decimal.NewFromFloat(price))
}
