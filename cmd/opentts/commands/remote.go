package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/cli"
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Inspect the model service's voice registry",
	Long: `Inspect the voice registry kept by the model service itself.

Some service deployments register voices on their side when extracting.
This registry is separate from the voices saved locally by 'clone --save';
deleting here does not touch the local store and vice versa.`,
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List voices registered on the service",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackend()
		if err != nil {
			return err
		}
		voices, err := client.ListVoices(cmd.Context())
		if err != nil {
			return err
		}

		if outputJSON {
			return outputResult(voices)
		}
		if len(voices) == 0 {
			cli.PrintInfo("No voices registered on %s", client.Model().DisplayName())
			return nil
		}

		tbl := cli.Table{
			Styles: styles,
			Header: []string{"NAME", "MODEL", "DURATION", "TRANSCRIPT"},
		}
		for _, v := range voices {
			dur := "-"
			if v.Duration > 0 {
				dur = cli.FormatDuration(time.Duration(v.Duration * float64(time.Second)))
			}
			tbl.Rows = append(tbl.Rows, []string{
				v.Name,
				v.Model,
				dur,
				truncate(v.Transcript, 48),
			})
		}
		fmt.Print(tbl.Render())
		return nil
	},
}

var remoteDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a voice registered on the service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackend()
		if err != nil {
			return err
		}
		if err := client.DeleteVoice(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Remote voice %q deleted", args[0])
		return nil
	},
}

func init() {
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteDeleteCmd)
}
