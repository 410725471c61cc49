package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"anklebreaker/internal/application/orchestrators"
)

func newClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Manage the global club registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			clubs, err := orchestrators.ExecuteListClubs(cmd.Context(), clubDeps(a))
			if err != nil {
				return err
			}
			for _, name := range clubs {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Register a club",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				return orchestrators.ExecuteAddClub(cmd.Context(), args[0], clubDeps(a))
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Unregister a club",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				return orchestrators.ExecuteRemoveClub(cmd.Context(), args[0], clubDeps(a))
			},
		},
		&cobra.Command{
			Use:   "rename <old> <new>",
			Short: "Rename a club in the registry",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp()
				if err != nil {
					return err
				}
				return orchestrators.ExecuteRenameClub(cmd.Context(), args[0], args[1], clubDeps(a))
			},
		},
	)
	return cmd
}

func clubDeps(a *app) orchestrators.ManageClubsDeps {
	return orchestrators.ManageClubsDeps{ClubRegistry: a.registry}
}
