package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/transport"
)

func productsCmd(envFiles *[]string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(productsImportCmd(envFiles))
	return cmd
}

func productsImportCmd(envFiles *[]string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file.yaml|file.json]",
		Short: "Insert or update products from a seed file",
		Long: `Insert or update products from a YAML or JSON seed file.

Products that carry an id replace the stored product with that id; the
others are created. Imported products are indexed in Elasticsearch when
ES_URL is set.

Example seed file:
  products:
    - id: 6f1c2d5e-0b7a-4c55-9d1e-2a8f3b4c5d6e
      name: Blue Mug
      description: Stoneware mug
      image: /img/mug.png
      price: 12.50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			products, err := transport.ParseSeed(args[0], data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				for _, p := range products {
					fmt.Fprintf(out, "%s\t%s\n", p.Name, p.Price.StringFixed(2))
				}
				fmt.Fprintf(out, "%d products parsed, nothing written\n", len(products))
				return nil
			}

			cfg, err := loadConfig(*envFiles, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repo.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if err := a.catalog().Import(ctx, products); err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(out, "imported %d products\n", len(products))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and list the products without writing them")
	return cmd
}
