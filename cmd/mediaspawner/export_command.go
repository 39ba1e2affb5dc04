package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaspawner/internal/config"
	"mediaspawner/internal/export"
	"mediaspawner/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the configuration to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				engine := export.NewEngine(st, quietLogger())

				if toStdout {
					result, err := engine.Export(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), result.Data)
					return nil
				}

				dir := outputDir
				if dir == "" {
					dir = cfg.Paths.ExportDir
				}
				path, result, err := engine.Download(cmd.Context(), dir)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"path":     path,
						"version":  result.Metadata.Version,
						"profiles": result.Metadata.ProfileCount,
						"assets":   result.Metadata.AssetCount,
						"spawns":   result.Metadata.SpawnCount,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Exported %d profiles, %d spawns, and %d assets\n",
					result.Metadata.ProfileCount, result.Metadata.SpawnCount, result.Metadata.AssetCount)
				fmt.Fprintf(out, "Wrote %s\n", path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for the export file (defaults to the configured export dir)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the export to stdout instead of writing a file")
	return cmd
}
