package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"marquee/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the marquee configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigPathCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(configFlagValue(ctx))
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				path = expanded
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
				} else if !errors.Is(err, fs.ErrNotExist) {
					return err
				}
			}

			if err := config.CreateSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolved, exists, err := config.Load(configFlagValue(ctx))
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), resolved)
				if !exists {
					fmt.Fprintln(cmd.OutOrStdout(), "(not created yet; run `marquee config init`)")
				}
				return nil
			}

			// Even an invalid config has a location worth reporting.
			defaultPath, pathErr := config.DefaultConfigPath()
			if pathErr != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), defaultPath)
			return nil
		},
	}
}

func configFlagValue(ctx *commandContext) string {
	if ctx.configFlag == nil {
		return ""
	}
	return *ctx.configFlag
}
