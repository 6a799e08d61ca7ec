package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/audio"
	"github.com/opentts/opentts/pkg/backend"
	"github.com/opentts/opentts/pkg/cli"
	"github.com/opentts/opentts/pkg/session"
	"github.com/opentts/opentts/pkg/voice"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	modelName   string
	hostName    string
	voicesDir   string
	timeoutSecs int
	outputJSON  bool
	verbose     bool

	// Global configuration
	globalConfig *cli.Config
	logger       *slog.Logger
	styles       = cli.DefaultStyles()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "opentts",
	Short: "Voice cloning TTS CLI",
	Long: `opentts - clone a voice from a short reference clip and speak with it.

Synthesis runs on one of two interchangeable model services:
  - OpenVoice V2 (ov, port 9280)  - tone-color embedding extraction
  - OpenF5-TTS   (of, port 9288)  - reference-audio conditioning

A cloned voice can be saved under a name and reused across invocations.
Configuration is stored in ~/.opentts/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Clone a voice, save it, and speak in one go
  opentts clone "ref.wav;The transcript of the clip." --save alice -t "Hello there."

  # Speak with a saved voice
  opentts -m ov say alice "Welcome back." -o greeting.wav

  # Check whether the model container is up
  opentts -m of --host gpu-box health

Exit codes:
  0  success
  1  generic I/O or unexpected failure
  2  invalid input (voice name, reference format, reference length)
  3  voice not found
  4  model mismatch
  5  backend unavailable
  6  extraction or synthesis failed
  7  no voice loaded
  8  storage corrupted`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.opentts/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", `backend model: "ov" (OpenVoice V2) or "of" (OpenF5-TTS)`)
	rootCmd.PersistentFlags().StringVar(&hostName, "host", "", "backend host (default: localhost)")
	rootCmd.PersistentFlags().StringVar(&voicesDir, "voices-dir", "", "saved-voice directory (default: ~/.opentts/voices)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(voicesCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
	logger = cli.NewLogger(verbose)
	slog.SetDefault(logger)
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// activeContext returns the selected context, the current one, or nil when
// no context is configured. A -c flag naming an unknown context is an error.
func activeContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, nil
	}
	if contextName != "" {
		return cfg.GetContext(contextName)
	}
	if cfg.CurrentContext == "" {
		return nil, nil
	}
	return cfg.GetCurrentContext()
}

// resolveModel applies flag > context > default precedence.
func resolveModel() (backend.Model, error) {
	if modelName != "" {
		return backend.ParseModel(modelName)
	}
	ctx, err := activeContext()
	if err != nil {
		return "", err
	}
	if ctx != nil && ctx.Model != "" {
		return backend.ParseModel(ctx.Model)
	}
	return backend.OpenVoice, nil
}

// newBackend builds the backend client from flags and context.
func newBackend() (backend.Client, error) {
	model, err := resolveModel()
	if err != nil {
		return nil, err
	}
	ctx, err := activeContext()
	if err != nil {
		return nil, err
	}

	var opts []backend.Option
	host := hostName
	if host == "" && ctx != nil {
		host = ctx.Host
	}
	if host != "" {
		opts = append(opts, backend.WithHost(host))
	}
	secs := timeoutSecs
	if secs == 0 && ctx != nil {
		secs = ctx.Timeout
	}
	if secs > 0 {
		opts = append(opts, backend.WithTimeout(time.Duration(secs)*time.Second))
	}
	return backend.New(model, opts...)
}

// openVoiceStore opens the saved-voice store from flags and context.
func openVoiceStore() (*voice.Store, error) {
	dir := voicesDir
	if dir == "" {
		ctx, err := activeContext()
		if err != nil {
			return nil, err
		}
		if ctx != nil {
			dir = ctx.VoicesDir
		}
	}
	if dir == "" {
		paths, err := cli.NewPaths()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		dir = paths.VoicesDir()
	}
	return voice.Open(dir)
}

// newEngine wires a session engine from the resolved backend and store.
func newEngine() (*session.Engine, error) {
	b, err := newBackend()
	if err != nil {
		return nil, err
	}
	store, err := openVoiceStore()
	if err != nil {
		return nil, err
	}
	return session.New(b, store, session.WithLogger(logger)), nil
}

// defaultSpeed returns the context's speed default, or 1.0.
func defaultSpeed() float64 {
	ctx, err := activeContext()
	if err == nil && ctx != nil && ctx.Speed != 0 {
		return ctx.Speed
	}
	return 1.0
}

// clampSpeed bounds the synthesis speed multiplier to what the model
// services accept.
func clampSpeed(speed float64) float64 {
	switch {
	case speed < 0.5:
		return 0.5
	case speed > 2.0:
		return 2.0
	}
	return speed
}

// ExitCode maps an error chain to the documented exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, voice.ErrInvalidName),
		errors.Is(err, session.ErrInvalidReference),
		errors.Is(err, audio.ErrInvalidFormat),
		errors.Is(err, audio.ErrReferenceTooShort),
		errors.Is(err, audio.ErrReferenceTooLong):
		return 2
	case errors.Is(err, voice.ErrNotFound),
		errors.Is(err, backend.ErrVoiceNotFound):
		return 3
	case errors.Is(err, backend.ErrModelMismatch):
		return 4
	case errors.Is(err, session.ErrBackendUnavailable):
		return 5
	case errors.Is(err, backend.ErrExtractionFailed),
		errors.Is(err, backend.ErrSynthesisFailed):
		return 6
	case errors.Is(err, session.ErrNoVoiceLoaded):
		return 7
	case errors.Is(err, voice.ErrCorrupted):
		return 8
	default:
		return 1
	}
}

// outputResult outputs the result using the cli package
func outputResult(result any) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{Format: format})
}
