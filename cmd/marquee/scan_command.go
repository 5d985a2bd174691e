package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/scanner"
	"marquee/internal/shows"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan playbill image directories and catalog the shows found",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			release, err := scanner.AcquireLock(filepath.Join(app.cfg.Paths.LogDir, "scan.lock"))
			if err != nil {
				return err
			}
			defer release()

			var dirs []string
			switch directory {
			case "seen":
				dirs = []string{app.scanner.SeenDir()}
			case "wishlist":
				dirs = []string{app.scanner.WishlistDir()}
			case "all":
				dirs = []string{app.scanner.SeenDir(), app.scanner.WishlistDir()}
			default:
				return fmt.Errorf("--directory must be seen, wishlist, or all")
			}

			var scanned, added, duplicates, failed int
			for _, dir := range dirs {
				pending, err := app.scanner.UnprocessedImages(cmd.Context(), dir)
				if err != nil {
					return err
				}
				for _, imagePath := range pending {
					scanned++
					data, mime, err := scanner.ReadImage(imagePath)
					if err != nil {
						app.logger.Warn("skipping unreadable image", "path", imagePath, "error", err)
						failed++
						continue
					}

					candidates, err := app.manager.ExtractFromImage(cmd.Context(), data, mime)
					if err != nil {
						// Leave the image unprocessed so the next scan
						// retries it.
						app.logger.Warn("show extraction failed", "path", imagePath, "error", err)
						failed++
						continue
					}

					status := app.scanner.SeenStatusForPath(imagePath)
					for _, candidate := range candidates {
						id, outcome, err := app.manager.AddShow(cmd.Context(), catalog.NewShow{
							ShowName:        candidate.ShowName,
							TheaterName:     candidate.TheaterName,
							SeenStatus:      status,
							SourceImagePath: imagePath,
						})
						if err != nil {
							app.logger.Warn("failed to catalog extracted show",
								"path", imagePath, "show", candidate.ShowName, "error", err)
							continue
						}
						if outcome == shows.OutcomeDuplicate {
							duplicates++
						} else {
							added++
							fmt.Fprintf(cmd.OutOrStdout(), "Added #%d: %s\n", id, candidate.ShowName)
						}
					}

					if err := app.store.MarkImageProcessed(cmd.Context(), imagePath); err != nil {
						return err
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Scan complete: %d images, %d shows added, %d duplicates, %d failures\n",
				scanned, added, duplicates, failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&directory, "directory", "all", "Which directory to scan: seen, wishlist, or all")
	return cmd
}
