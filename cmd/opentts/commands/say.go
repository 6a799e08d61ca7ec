package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

var (
	saySpeed  float64
	sayOutput string
)

var sayCmd = &cobra.Command{
	Use:   "say <voice> <text>...",
	Short: "Synthesize speech with a saved voice",
	Long: `Synthesize speech with a previously saved voice.

The voice must have been saved by 'clone --save' with the same model as the
active one; loading a voice cloned by the other model is refused.

Examples:
  opentts say alice "Hello, how are you today?"
  opentts -m of say bob "Read this out loud." --speed 1.3 -o fast.wav`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		text := strings.Join(args[1:], " ")

		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.LoadNamedVoice(name); err != nil {
			return err
		}

		speed := saySpeed
		if !cmd.Flags().Changed("speed") {
			speed = defaultSpeed()
		}
		return synthesizeToFile(cmd, eng, text, speed, sayOutput)
	},
}

func init() {
	sayCmd.Flags().Float64Var(&saySpeed, "speed", 1.0, "speech speed multiplier (0.5-2.0)")
	sayCmd.Flags().StringVarP(&sayOutput, "output", "o", "output.wav", "output WAV file")
}
