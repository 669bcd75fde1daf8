package cmd

import (
	"fmt"

	"github.com/smazurov/obsctl/pkg/obsws"
	"github.com/spf13/cobra"
)

// CreateStreamCmd creates the stream command.
func CreateStreamCmd() *cobra.Command {
	var flags obsFlags

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Control the OBS streaming output",
	}
	flags.register(cmd)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start streaming",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			if err := client.StartStreaming(ctx); err != nil {
				fail(err)
			}
			fmt.Println("Streaming started")
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop streaming",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			if err := client.StopStreaming(ctx); err != nil {
				fail(err)
			}
			fmt.Println("Streaming stopped")
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print output status",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			status, err := client.GetStreamingStatus(ctx)
			if err != nil {
				fail(err)
			}

			fmt.Printf("streaming: %v\n", status.Streaming)
			if status.Streaming && status.StreamTimecode != "" {
				fmt.Printf("stream timecode: %s\n", status.StreamTimecode)
			}
			fmt.Printf("recording: %v\n", status.Recording)
			if status.Recording && status.RecTimecode != "" {
				fmt.Printf("recording timecode: %s\n", status.RecTimecode)
			}
		},
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the configured stream settings",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			settings, err := client.GetStreamSettings(ctx)
			if err != nil {
				fail(err)
			}

			fmt.Printf("type: %s\n", settings.Type)
			fmt.Printf("server: %s\n", settings.Settings.Server)
			if settings.Settings.Key != "" {
				fmt.Println("key: (set)")
			}
		},
	}

	var server, key string
	var save bool
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update the stream server and key",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			if server == "" && key == "" {
				fail(fmt.Errorf("nothing to set, pass --server and/or --key"))
			}

			client, ctx, cancel, err := flags.dial()
			if err != nil {
				fail(err)
			}
			defer cancel()
			defer client.Close()

			settings := obsws.StreamSettings{
				Type: "rtmp_custom",
				Settings: obsws.StreamServerSettings{
					Server: server,
					Key:    key,
				},
			}
			if err := client.SetStreamSettings(ctx, settings, save); err != nil {
				fail(err)
			}
			fmt.Println("Stream settings updated")
		},
	}
	setCmd.Flags().StringVar(&server, "server", "", "Ingest server URL")
	setCmd.Flags().StringVar(&key, "key", "", "Stream key")
	setCmd.Flags().BoolVar(&save, "save", false, "Persist settings to disk")

	cmd.AddCommand(startCmd, stopCmd, statusCmd, settingsCmd, setCmd)
	return cmd
}
