package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "enrich <id>",
		Short: "Fill a show's missing metadata from the configured provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}

			app, cleanup, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			show, err := app.manager.Enrich(cmd.Context(), id, force)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatShowDetail(show))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-request and overwrite every enrichable field")
	return cmd
}
