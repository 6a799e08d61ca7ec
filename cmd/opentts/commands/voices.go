package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/cli"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "Manage locally saved voices",
	Long: `Manage voices saved on this machine.

Saved voices live in ~/.opentts/voices/ (override with --voices-dir). They
are independent of the voice registry kept by the model service itself; see
'opentts remote' for that one.`,
}

var voicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved voices",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVoiceStore()
		if err != nil {
			return err
		}
		voices := store.List()

		if outputJSON {
			return outputResult(voices)
		}
		if len(voices) == 0 {
			cli.PrintInfo("No saved voices")
			return nil
		}

		tbl := cli.Table{
			Styles: styles,
			Header: []string{"NAME", "MODEL", "CREATED", "TRANSCRIPT"},
		}
		for _, v := range voices {
			tbl.Rows = append(tbl.Rows, []string{
				v.Name,
				v.Model,
				v.CreatedAt.Local().Format("2006-01-02 15:04"),
				truncate(v.Transcript, 48),
			})
		}
		fmt.Print(tbl.Render())
		return nil
	},
}

var voicesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVoiceStore()
		if err != nil {
			return err
		}
		emb, err := store.Load(args[0])
		if err != nil {
			return err
		}

		if outputJSON {
			return outputResult(map[string]any{
				"name":         args[0],
				"model":        emb.Model,
				"created_at":   emb.CreatedAt,
				"transcript":   emb.Transcript,
				"payload_size": len(emb.Payload),
			})
		}
		fmt.Println(styles.KV("Name", args[0]))
		fmt.Println(styles.KV("Model", emb.Model))
		fmt.Println(styles.KV("Created", emb.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		fmt.Println(styles.KV("Transcript", emb.Transcript))
		fmt.Println(styles.KV("Payload", cli.FormatBytes(int64(len(emb.Payload)))))
		return nil
	},
}

var voicesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved voice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openVoiceStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Voice %q deleted", args[0])
		return nil
	},
}

func init() {
	voicesCmd.AddCommand(voicesListCmd)
	voicesCmd.AddCommand(voicesShowCmd)
	voicesCmd.AddCommand(voicesDeleteCmd)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
