// cmd/storefront/commands/cars.go
package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"mycars-storefront/internal/apiclient"
	"mycars-storefront/internal/catalog"
	"mycars-storefront/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func carsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Inspect vehicles in the catalog API",
	}
	cmd.AddCommand(carsListCmd())
	return cmd
}

func carsListCmd() *cobra.Command {
	var (
		filter catalog.Filter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vehicles, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := apiclient.NewCarRepository(newClient())
			cars, err := catalog.GetAllCars(cmd.Context(), repo)
			if err != nil {
				return fmt.Errorf("list cars: %w", err)
			}
			cars = filter.Apply(cars)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cars)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCars(cars))
			return nil
		},
	}
	cmd.Flags().Int64Var(&filter.BrandID, "brand", 0, "brand ID")
	cmd.Flags().Int64Var(&filter.ModelID, "model", 0, "model ID")
	cmd.Flags().StringVar(&filter.Status, "status", "", "AVAILABLE, RESERVED, SOLD or MAINTENANCE")
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "text search on brand, model, color and plate")
	cmd.Flags().Float64Var(&filter.MaxPrice, "max-price", 0, "maximum selling price")
	cmd.Flags().StringVar(&filter.Sort, "sort", "", "price_asc, price_desc, year_desc or mileage_asc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func renderCars(cars []models.Car) string {
	t := newTable("ID", "PLATE", "BRAND", "MODEL", "YEAR", "MILEAGE", "PRICE", "STATUS")
	for _, c := range cars {
		t.Row(
			strconv.FormatInt(c.ID, 10),
			c.LicensePlate,
			c.Model.Brand.Name,
			c.Model.Name,
			strconv.Itoa(c.ExpeditionYear),
			catalog.FormatMileage(c.Mileage),
			catalog.FormatPrice(c.SellingPrice),
			catalog.TranslateStatus(string(c.Status)),
		)
	}
	return t.String()
}
