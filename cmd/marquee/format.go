package main

import (
	"fmt"
	"strconv"
	"strings"

	"marquee/internal/catalog"
)

func formatRating(rating int) string {
	if rating <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d/10", rating)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func formatCast(cast []catalog.CastMember) string {
	if len(cast) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cast))
	for _, member := range cast {
		if member.Role != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", member.Actor, member.Role))
		} else {
			parts = append(parts, member.Actor)
		}
	}
	return strings.Join(parts, ", ")
}

func formatShowDetail(show *catalog.Show) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s\n", show.ID, show.ShowName)
	fmt.Fprintf(&b, "  Theater:        %s\n", orDash(show.TheaterName))
	fmt.Fprintf(&b, "  Status:         %s\n", show.SeenStatus)
	fmt.Fprintf(&b, "  Date attended:  %s\n", orDash(show.DateAttended))
	fmt.Fprintf(&b, "  Rating:         %s\n", formatRating(show.Rating))
	fmt.Fprintf(&b, "  Notes:          %s\n", orDash(show.PersonalNotes))

	fmt.Fprintf(&b, "  Genre:          %s\n", orDash(show.Genre))
	fmt.Fprintf(&b, "  Type:           %s\n", orDash(show.ProductionType))
	if show.IsRevival != nil {
		fmt.Fprintf(&b, "  Revival:        %s\n", strconv.FormatBool(*show.IsRevival))
	}
	if show.OriginalProductionYear != nil {
		fmt.Fprintf(&b, "  Premiered:      %d\n", *show.OriginalProductionYear)
	}
	fmt.Fprintf(&b, "  Director:       %s\n", orDash(show.Director))
	fmt.Fprintf(&b, "  Choreographer:  %s\n", orDash(show.Choreographer))
	fmt.Fprintf(&b, "  Composer:       %s\n", orDash(show.Composer))
	fmt.Fprintf(&b, "  Lyricist:       %s\n", orDash(show.Lyricist))
	fmt.Fprintf(&b, "  Book:           %s\n", orDash(show.BookWriter))
	fmt.Fprintf(&b, "  Opened:         %s\n", orDash(show.OpeningDate))
	fmt.Fprintf(&b, "  Closed:         %s\n", orDash(show.ClosingDate))
	if show.RunningTime != nil {
		fmt.Fprintf(&b, "  Running time:   %d min\n", *show.RunningTime)
	}
	if show.IntermissionCount != nil {
		fmt.Fprintf(&b, "  Intermissions:  %d\n", *show.IntermissionCount)
	}
	fmt.Fprintf(&b, "  Lead cast:      %s\n", formatCast(show.LeadCast))
	fmt.Fprintf(&b, "  Tony Awards:    %s\n", joinOrDash(show.TonyAwards))
	fmt.Fprintf(&b, "  Other awards:   %s\n", joinOrDash(show.OtherAwards))
	fmt.Fprintf(&b, "  Numbers:        %s\n", joinOrDash(show.MusicalNumbers))
	fmt.Fprintf(&b, "  Themes:         %s\n", joinOrDash(show.Themes))
	fmt.Fprintf(&b, "  Categories:     %s\n", joinOrDash(show.LLMCategories))
	fmt.Fprintf(&b, "  My categories:  %s\n", joinOrDash(show.UserCategories))
	if summary := strings.TrimSpace(show.PlotSummary); summary != "" {
		fmt.Fprintf(&b, "  Summary:        %s\n", summary)
	}
	if show.SourceImagePath != "" {
		fmt.Fprintf(&b, "  Source image:   %s\n", show.SourceImagePath)
	}

	return b.String()
}

func showTableRows(entries []*catalog.Show) ([]string, [][]string, []columnAlignment) {
	headers := []string{"ID", "Show", "Theater", "Status", "Date", "Rating", "Genre"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}

	rows := make([][]string, 0, len(entries))
	for _, show := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(show.ID, 10),
			show.ShowName,
			show.TheaterName,
			string(show.SeenStatus),
			orDash(show.DateAttended),
			formatRating(show.Rating),
			orDash(show.Genre),
		})
	}
	return headers, rows, aligns
}
