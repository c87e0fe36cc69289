package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront API server and maintenance commands",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env files to load before the process environment (default .env)")

	root.AddCommand(serveCmd(&envFiles))
	root.AddCommand(migrateCmd(&envFiles))
	root.AddCommand(productsCmd(&envFiles))
	return root
}
