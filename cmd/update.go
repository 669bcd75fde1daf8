package cmd

import (
	"context"
	"fmt"

	"github.com/smazurov/obsctl/internal/logging"
	"github.com/smazurov/obsctl/internal/updater"
	"github.com/spf13/cobra"
)

const updateRepository = "smazurov/obsctl"

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var prerelease bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update obsctl to the latest release",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			svc, err := updater.NewService(&updater.Options{
				Repository: updateRepository,
				Prerelease: prerelease,
			})
			if err != nil {
				fail(err)
			}
			if !svc.IsEnabled() {
				fail(fmt.Errorf("updates disabled: %s", svc.DisabledReason()))
			}

			ctx := context.Background()
			info, err := svc.CheckForUpdate(ctx)
			if err != nil {
				fail(err)
			}

			if !info.UpdateAvailable {
				fmt.Printf("Already up to date (%s)\n", info.CurrentVersion)
				return
			}

			fmt.Printf("Update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if checkOnly {
				if info.ReleaseURL != "" {
					fmt.Println(info.ReleaseURL)
				}
				return
			}

			if err := svc.ApplyUpdate(ctx); err != nil {
				fail(err)
			}
			fmt.Printf("Updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for updates, do not install")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prereleases")
	return cmd
}
