package main

import (
	"github.com/danmuck/wirebuf/internal/config"
	"github.com/danmuck/wirebuf/internal/logging"
	"github.com/danmuck/wirebuf/internal/protocol/layout"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries state shared by subcommands once the config is loaded.
type app struct {
	configPath string
	cfg        config.Config
	registry   *layout.Registry
}

func newRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "wirectl",
		Short:         "Encode and decode fixed-layout binary messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "wirectl.toml", "path to the layout config")

	root.AddCommand(newInit(a))
	root.AddCommand(withConfig(a, newLayouts(a)))
	root.AddCommand(withConfig(a, newEncode(a)))
	root.AddCommand(withConfig(a, newDecode(a)))
	return root
}

// withConfig loads the config and layout registry before cmd runs.
func withConfig(a *app, cmd *cobra.Command) *cobra.Command {
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		logging.ConfigureRuntime()
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		if !logging.SetConfigLevel(cfg.LogLevel) {
			log.Warn().Str("log_level", cfg.LogLevel).Msg("ignoring unknown log level")
		}
		reg, err := cfg.Registry()
		if err != nil {
			return errors.Wrap(err, "build layout registry")
		}
		a.cfg = cfg
		a.registry = reg
		log.Debug().Str("config", a.configPath).Int("layouts", len(reg.Names())).Msg("config loaded")
		return nil
	}
	return cmd
}

func newInit(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an example config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteTemplate(a.configPath, force); err != nil {
				return err
			}
			cmd.Printf("wrote config template to %s\n", a.configPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	return cmd
}

func newLayouts(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List configured layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range a.registry.Names() {
				l, err := a.registry.Get(name)
				if err != nil {
					return err
				}
				fmtLine(out, "%s\ttype=%d\tsize=%d\tfields=%d", l.Name, l.MessageType, l.Size, len(l.Fields))
			}
			return nil
		},
	}
}
