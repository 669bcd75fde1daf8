package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateMediaCmd creates the media command.
func CreateMediaCmd() *cobra.Command {
	var flags obsFlags

	cmd := &cobra.Command{
		Use:   "media",
		Short: "Control media source playback",
	}
	flags.register(cmd)

	playCmd := &cobra.Command{
		Use:   "play <source>",
		Short: "Resume playback of a media source",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			playPause(&flags, args[0], false)
		},
	}

	pauseCmd := &cobra.Command{
		Use:   "pause <source>",
		Short: "Pause a media source",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			playPause(&flags, args[0], true)
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart <source>",
		Short: "Restart a media source from the beginning",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			if err := client.RestartMedia(ctx, args[0]); err != nil {
				fail(err)
			}
			fmt.Println("Restarted", args[0])
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop <source>",
		Short: "Stop a media source",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			if err := client.StopMedia(ctx, args[0]); err != nil {
				fail(err)
			}
			fmt.Println("Stopped", args[0])
		},
	}

	stateCmd := &cobra.Command{
		Use:   "state <source>",
		Short: "Print the playback state of a media source",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			state, err := client.GetMediaState(ctx, args[0])
			if err != nil {
				fail(err)
			}
			fmt.Println(state.State)
		},
	}

	cmd.AddCommand(playCmd, pauseCmd, restartCmd, stopCmd, stateCmd)
	return cmd
}

func playPause(flags *obsFlags, source string, pause bool) {
	client, ctx, cancel, err := flags.dial()
	if err != nil {
		fail(err)
	}
	defer cancel()
	defer client.Close()

	if err := client.PlayPauseMedia(ctx, source, pause); err != nil {
		fail(err)
	}
	if pause {
		fmt.Println("Paused", source)
	} else {
		fmt.Println("Playing", source)
	}
}
