package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/cli"
	"github.com/opentts/opentts/pkg/session"
)

var (
	cloneSaveName string
	cloneText     string
	cloneSpeed    float64
	cloneOutput   string
)

var cloneCmd = &cobra.Command{
	Use:   `clone "<file.wav;transcript>"`,
	Short: "Clone a voice from a reference clip",
	Long: `Clone a voice from a reference clip and its transcript.

The argument is the reference WAV path and its spoken transcript, joined by
a semicolon. The clip must be 3 to 30 seconds long; it is converted to mono
24 kHz before extraction. Any sample rate and channel count are accepted.

Use --save to keep the cloned voice for later 'say' invocations, and --text
to synthesize immediately with the fresh clone.

Examples:
  opentts -m ov clone "ref.wav;This is what I said in the recording."
  opentts clone "ref.wav;Transcript." --save alice
  opentts clone "ref.wav;Transcript." --save alice -t "Hello world." -o hello.wav`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := session.ParseReference(args[0])
		if err != nil {
			return err
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.LoadReference(cmd.Context(), ref); err != nil {
			return err
		}
		cli.PrintSuccess("Voice cloned from %s (%s)", ref.Path, eng.Model().DisplayName())

		if cloneSaveName != "" {
			if err := eng.SaveVoice(cloneSaveName); err != nil {
				return err
			}
			cli.PrintSuccess("Voice saved as %q", cloneSaveName)
		}
		if cloneText != "" {
			speed := cloneSpeed
			if !cmd.Flags().Changed("speed") {
				speed = defaultSpeed()
			}
			return synthesizeToFile(cmd, eng, cloneText, speed, cloneOutput)
		}
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneSaveName, "save", "", "save the cloned voice under this name")
	cloneCmd.Flags().StringVarP(&cloneText, "text", "t", "", "synthesize this text right after cloning")
	cloneCmd.Flags().Float64Var(&cloneSpeed, "speed", 1.0, "speech speed multiplier (0.5-2.0)")
	cloneCmd.Flags().StringVarP(&cloneOutput, "output", "o", "output.wav", "output WAV file")
}

// synthesizeToFile generates speech and writes it as a 16-bit PCM WAV.
func synthesizeToFile(cmd *cobra.Command, eng *session.Engine, text string, speed float64, path string) error {
	buf, err := eng.Generate(cmd.Context(), text, clampSpeed(speed))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := audio.EncodeWAV(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cli.PrintSuccess("Wrote %s (%s)", path, cli.FormatDuration(buf.Duration()))
	return nil
}
