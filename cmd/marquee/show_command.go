package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display one show in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}

			app, cleanup, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			show, err := app.manager.GetShow(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatShowDetail(show))
			return nil
		},
	}
	return cmd
}
