package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateSceneCmd creates the scene command.
func CreateSceneCmd() *cobra.Command {
	var flags obsFlags

	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect and switch OBS scenes",
	}
	flags.register(cmd)

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the current program scene and its sources",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			scene, err := client.GetCurrentScene(ctx)
			if err != nil {
				fail(err)
			}

			fmt.Println(scene.Name)
			for _, item := range scene.Sources {
				marker := " "
				if item.Render {
					marker = "*"
				}
				fmt.Printf("  %s %s (%s)\n", marker, item.Name, item.Type)
			}
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <scene-name>",
		Short: "Switch the program scene",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			if err := client.SetCurrentScene(ctx, args[0]); err != nil {
				fail(err)
			}
			fmt.Println("Switched to", args[0])
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <scene-name> <source>",
		Short: "Make a scene item visible",
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			setRender(&flags, args[0], args[1], true)
		},
	}

	hideCmd := &cobra.Command{
		Use:   "hide <scene-name> <source>",
		Short: "Hide a scene item",
		Args:  cobra.ExactArgs(2),
		Run: func(_ *cobra.Command, args []string) {
			setRender(&flags, args[0], args[1], false)
		},
	}

	studioCmd := &cobra.Command{
		Use:   "studio",
		Short: "Print studio mode state, or enable it with --enable",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			enable, _ := c.Flags().GetBool("enable")
			if enable {
				if err := client.EnableStudioMode(ctx); err != nil {
					fail(err)
				}
				fmt.Println("Studio mode enabled")
				return
			}

			status, err := client.GetStudioModeStatus(ctx)
			if err != nil {
				fail(err)
			}
			if status.Enabled {
				fmt.Println("Studio mode: on")
			} else {
				fmt.Println("Studio mode: off")
			}
		},
	}
	studioCmd.Flags().Bool("enable", false, "Enable studio mode")

	cmd.AddCommand(getCmd, setCmd, showCmd, hideCmd, studioCmd)
	return cmd
}

func setRender(flags *obsFlags, scene, source string, visible bool) {
	client, ctx, cancel, err := flags.dial()
	if err != nil {
		fail(err)
	}
	defer cancel()
	defer client.Close()

	if err := client.SetSceneItemRender(ctx, scene, source, visible); err != nil {
		fail(err)
	}
	if visible {
		fmt.Printf("%s/%s shown\n", scene, source)
	} else {
		fmt.Printf("%s/%s hidden\n", scene, source)
	}
}
