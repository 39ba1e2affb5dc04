package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaspawner/internal/config"
	"mediaspawner/internal/store"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Inspect media assets",
	}

	assetCmd.AddCommand(newAssetListCommand(ctx))

	return assetCmd
}

func newAssetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List media assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				assets, err := st.GetAssets(cmd.Context())
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, assets)
				}

				if len(assets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No assets configured.")
					return nil
				}

				rows := make([][]string, 0, len(assets))
				for _, asset := range assets {
					location := "local"
					if asset.IsURL {
						location = "url"
					}
					rows = append(rows, []string{
						asset.ID,
						truncate(asset.Name, 40),
						string(asset.Type),
						location,
						truncate(asset.Path, 60),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
					[]string{"ID", "Name", "Type", "Source", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
