package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediaspawner/internal/config"
	"mediaspawner/internal/importer"
	"mediaspawner/internal/store"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var profileStrategy string
	var assetStrategy string
	var updateWorkingDir bool
	var skipReferenceCheck bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a configuration file and merge it with the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			opts := importer.Options{
				ProfileStrategy:         importer.ConflictStrategy(profileStrategy),
				AssetStrategy:           importer.ConflictStrategy(assetStrategy),
				UpdateWorkingDirectory:  updateWorkingDir,
				ValidateAssetReferences: !skipReferenceCheck,
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				result, err := importer.NewEngine(st, quietLogger()).Import(cmd.Context(), string(data), opts)
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"version":                  result.Metadata.Version,
						"profiles":                 result.Metadata.ProfileCount,
						"assets":                   result.Metadata.AssetCount,
						"spawns":                   result.Metadata.SpawnCount,
						"warnings":                 result.Metadata.Warnings,
						"profileConflicts":         result.Conflicts.ProfileConflicts,
						"assetConflicts":           result.Conflicts.AssetConflicts,
						"invalidAssetReferences":   result.Conflicts.InvalidAssetReferences,
						"workingDirectoryConflict": result.Conflicts.WorkingDirectoryConflict,
					})
				}

				printImportReport(cmd, result, updateWorkingDir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&profileStrategy, "profiles", string(importer.StrategyRename), "Profile conflict strategy: skip, overwrite, or rename")
	cmd.Flags().StringVar(&assetStrategy, "assets", string(importer.StrategyRename), "Asset conflict strategy: skip, overwrite, or rename")
	cmd.Flags().BoolVar(&updateWorkingDir, "update-working-directory", false, "Adopt the imported working directory")
	cmd.Flags().BoolVar(&skipReferenceCheck, "skip-reference-check", false, "Skip the post-merge asset reference check")
	return cmd
}

func printImportReport(cmd *cobra.Command, result *importer.Result, updatedWorkingDir bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported configuration version %s\n", result.Metadata.Version)
	fmt.Fprintf(out, "Now holding %d profiles, %d spawns, and %d assets\n",
		result.Metadata.ProfileCount, result.Metadata.SpawnCount, result.Metadata.AssetCount)

	for _, name := range result.Conflicts.ProfileConflicts {
		fmt.Fprintf(out, "Profile conflict resolved: %s\n", name)
	}
	for _, name := range result.Conflicts.AssetConflicts {
		fmt.Fprintf(out, "Asset conflict resolved: %s\n", name)
	}
	for _, ref := range result.Conflicts.InvalidAssetReferences {
		fmt.Fprintf(out, "Warning: %s\n", ref)
	}
	if result.Conflicts.WorkingDirectoryConflict {
		if updatedWorkingDir {
			fmt.Fprintln(out, "Note: working directory replaced with the imported value")
		} else {
			fmt.Fprintln(out, "Warning: imported working directory differs from the current one (kept current; rerun with --update-working-directory to adopt it)")
		}
	}
	for _, warning := range result.Metadata.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}
}
