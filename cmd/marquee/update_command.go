package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		name    string
		theater string
		status  string
		date    string
		rating  int
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a show's personal fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid show id %q", args[0])
			}

			updates := catalog.FieldUpdates{}
			if cmd.Flags().Changed("name") {
				updates["show_name"] = name
			}
			if cmd.Flags().Changed("theater") {
				updates["theater_name"] = theater
			}
			if cmd.Flags().Changed("status") {
				updates["seen_status"] = status
			}
			if cmd.Flags().Changed("date") {
				if date != "" {
					if _, err := time.Parse("2006-01-02", date); err != nil {
						return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
					}
				}
				updates["date_attended"] = date
			}
			if cmd.Flags().Changed("rating") {
				if rating < 1 || rating > 10 {
					return fmt.Errorf("--rating must be between 1 and 10")
				}
				updates["rating"] = rating
			}
			if cmd.Flags().Changed("notes") {
				updates["personal_notes"] = notes
			}
			if len(updates) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			app, cleanup, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			show, err := app.manager.UpdateShow(cmd.Context(), id, updates)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatShowDetail(show))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Show name")
	cmd.Flags().StringVar(&theater, "theater", "", "Theater name")
	cmd.Flags().StringVar(&status, "status", "", "Status: seen or wishlist")
	cmd.Flags().StringVar(&date, "date", "", "Date attended (YYYY-MM-DD)")
	cmd.Flags().IntVar(&rating, "rating", 0, "Personal rating (1-10)")
	cmd.Flags().StringVar(&notes, "notes", "", "Personal notes")
	return cmd
}
