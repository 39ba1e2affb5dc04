package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediaspawner/internal/config"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/store"
)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect and manage spawn profiles",
	}

	profileCmd.AddCommand(newProfileListCommand(ctx))
	profileCmd.AddCommand(newProfileShowCommand(ctx))
	profileCmd.AddCommand(newProfileActivateCommand(ctx))

	return profileCmd
}

func newProfileListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List spawn profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				profiles, err := st.GetAllProfiles(cmd.Context())
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, profiles)
				}

				if len(profiles) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No profiles configured. Import a configuration with `mediaspawner import`.")
					return nil
				}

				rows := make([][]string, 0, len(profiles))
				for _, profile := range profiles {
					rows = append(rows, []string{
						profile.ID,
						profile.Name,
						strconv.Itoa(len(profile.Spawns)),
						yesNo(profile.IsActive),
						displayTime(profile.LastModified),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
					[]string{"ID", "Name", "Spawns", "Active", "Last Modified"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newProfileShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show one profile with its spawns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				profiles, err := st.GetAllProfiles(cmd.Context())
				if err != nil {
					return err
				}
				profile, err := findProfile(profiles, args[0])
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, profile)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Profile: %s (%s)\n", profile.Name, profile.ID)
				if profile.Description != "" {
					fmt.Fprintf(out, "Description: %s\n", profile.Description)
				}
				if profile.WorkingDirectory != "" {
					fmt.Fprintf(out, "Working directory: %s\n", profile.WorkingDirectory)
				}
				fmt.Fprintf(out, "Active: %s\n", yesNo(profile.IsActive))
				fmt.Fprintf(out, "Last modified: %s\n", displayTime(profile.LastModified))

				if len(profile.Spawns) == 0 {
					fmt.Fprintln(out, "No spawns in this profile.")
					return nil
				}

				rows := make([][]string, 0, len(profile.Spawns))
				for _, sp := range profile.Spawns {
					rows = append(rows, []string{
						sp.ID,
						truncate(sp.Name, 40),
						displayTrigger(sp.Trigger.Type),
						yesNo(sp.Enabled),
						strconv.Itoa(len(sp.Assets)),
						strconv.FormatInt(sp.Duration, 10) + "ms",
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Name", "Trigger", "Enabled", "Assets", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}
}

func newProfileActivateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id-or-name>",
		Short: "Mark a profile as the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				profiles, err := st.GetAllProfiles(cmd.Context())
				if err != nil {
					return err
				}
				profile, err := findProfile(profiles, args[0])
				if err != nil {
					return err
				}
				if err := st.SetActiveProfile(cmd.Context(), profile.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Activated profile %s (%s)\n", profile.Name, profile.ID)
				return nil
			})
		},
	}
}

// findProfile matches by id first, then by exact name, then by unique
// case-insensitive name prefix.
func findProfile(profiles []spawn.SpawnProfile, query string) (*spawn.SpawnProfile, error) {
	for i := range profiles {
		if profiles[i].ID == query {
			return &profiles[i], nil
		}
	}
	for i := range profiles {
		if profiles[i].Name == query {
			return &profiles[i], nil
		}
	}

	lowered := strings.ToLower(query)
	var match *spawn.SpawnProfile
	for i := range profiles {
		if strings.HasPrefix(strings.ToLower(profiles[i].Name), lowered) {
			if match != nil {
				return nil, fmt.Errorf("profile %q is ambiguous; use the id", query)
			}
			match = &profiles[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no profile matches %q", query)
	}
	return match, nil
}
