package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icco/genstaff/internal/playback"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List the MIDI output ports",
	Long:  `List the MIDI output ports that play and edit can send to with --port or midiPort.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports := playback.OutPorts()
		if len(ports) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No MIDI output ports")
			return
		}
		for i, name := range ports {
			fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", i, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(portsCmd)
}
