package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opentts/opentts/pkg/backend"
	"github.com/opentts/opentts/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

A context bundles the model choice, backend host, and synthesis defaults
under one name, similar to kubectl's context management.

Configuration is stored in ~/.opentts/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

Example:
  opentts config add-context local --model ov
  opentts config add-context lab --model of --host gpu-box --speed 1.1 --timeout 180`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		model, err := cmd.Flags().GetString("model")
		if err != nil {
			return fmt.Errorf("failed to read 'model' flag: %w", err)
		}
		host, err := cmd.Flags().GetString("host")
		if err != nil {
			return fmt.Errorf("failed to read 'host' flag: %w", err)
		}
		speed, err := cmd.Flags().GetFloat64("speed")
		if err != nil {
			return fmt.Errorf("failed to read 'speed' flag: %w", err)
		}
		timeout, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}
		dir, err := cmd.Flags().GetString("voices-dir")
		if err != nil {
			return fmt.Errorf("failed to read 'voices-dir' flag: %w", err)
		}

		ctx := &cli.Context{
			Host:      host,
			Speed:     speed,
			Timeout:   timeout,
			VoicesDir: dir,
		}
		if model != "" {
			m, err := backend.ParseModel(model)
			if err != nil {
				return err
			}
			ctx.Model = string(m)
		}

		cfg := getConfig()
		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q added successfully", name)
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Switched to context %q", args[0])
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		names := cfg.ListContexts()

		if outputJSON {
			return outputResult(cfg.Contexts)
		}
		if len(names) == 0 {
			cli.PrintInfo("No contexts configured. Add one with 'opentts config add-context'")
			return nil
		}

		tbl := cli.Table{
			Styles: styles,
			Header: []string{"", "NAME", "MODEL", "HOST"},
		}
		for _, name := range names {
			ctx := cfg.Contexts[name]
			marker := ""
			if name == cfg.CurrentContext {
				marker = "*"
			}
			host := ctx.Host
			if host == "" {
				host = "localhost"
			}
			tbl.Rows = append(tbl.Rows, []string{marker, name, ctx.Model, host})
		}
		fmt.Print(tbl.Render())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a context (current context if no name given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		ctx, err := getConfig().ResolveContext(name)
		if err != nil {
			return err
		}
		return outputResult(ctx)
	},
}

func init() {
	configAddContextCmd.Flags().String("model", "", `backend model: "ov" or "of"`)
	configAddContextCmd.Flags().String("host", "", "backend host")
	configAddContextCmd.Flags().Float64("speed", 0, "default speech speed multiplier")
	configAddContextCmd.Flags().Int("timeout", 0, "request timeout in seconds")
	configAddContextCmd.Flags().String("voices-dir", "", "saved-voice directory")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configShowCmd)
}
