package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/session"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe backend availability",
	Long: `Probe the model service's health endpoint.

Reports status, loaded model, and GPU information. Exits non-zero when the
service does not answer, so the command doubles as a readiness check:

  opentts -m of --host gpu-box health && opentts -m of say alice "Ready."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newBackend()
		if err != nil {
			return err
		}
		h := client.Health(cmd.Context())

		if outputJSON {
			if err := outputResult(h); err != nil {
				return err
			}
		} else {
			fmt.Printf("%s %s\n", styles.Checkmark(h.Available), client.Model().DisplayName())
			if h.Available {
				fmt.Println(styles.KV("Status", h.Status))
				fmt.Println(styles.KV("Model", h.Model))
				fmt.Println(styles.KV("CUDA", h.CUDA))
				if h.GPU != "" {
					fmt.Println(styles.KV("GPU", h.GPU))
				}
				if h.Device != "" {
					fmt.Println(styles.KV("Device", h.Device))
				}
			}
		}

		if !h.Available {
			return fmt.Errorf("%w: %s did not answer the health probe",
				session.ErrBackendUnavailable, client.Model().DisplayName())
		}
		return nil
	},
}
