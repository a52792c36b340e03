// cmd/storefront/commands/brands.go
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func brandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "Inspect brands and models in the catalog API",
	}
	cmd.AddCommand(brandsListCmd())
	return cmd
}

func brandsListCmd() *cobra.Command {
	var withModels bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List brands",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			brands, err := client.ListBrands(cmd.Context())
			if err != nil {
				return fmt.Errorf("list brands: %w", err)
			}

			t := newTable("ID", "BRAND", "MODELS")
			for _, b := range brands {
				modelCol := ""
				if withModels {
					list, err := client.ListModelsByBrand(cmd.Context(), b.ID)
					if err != nil {
						return fmt.Errorf("list models of brand %d: %w", b.ID, err)
					}
					for i, m := range list {
						if i > 0 {
							modelCol += ", "
						}
						modelCol += m.Name
					}
				}
				t.Row(strconv.FormatInt(b.ID, 10), b.Name, modelCol)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&withModels, "models", false, "also list the models of each brand")
	return cmd
}
