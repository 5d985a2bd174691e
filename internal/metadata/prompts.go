package metadata

import (
	"fmt"
	"strings"
)

// fieldDescriptions documents the JSON shape expected for each enrichable
// field. The keys here are the exact column names the enrichment engine
// accepts; anything else in a reply is discarded.
var fieldDescriptions = map[string]string{
	"lead_cast":                `array of objects like {"role": "...", "actor": "..."} for the principal cast`,
	"director":                 "string, the director's name",
	"choreographer":            "string, the choreographer's name",
	"composer":                 "string, the composer's name",
	"lyricist":                 "string, the lyricist's name",
	"book_writer":              "string, the book writer's name",
	"opening_date":             `string, the production's opening date as "YYYY-MM-DD"`,
	"closing_date":             `string, the production's closing date as "YYYY-MM-DD", or null if still running`,
	"is_revival":               "boolean, true if this production is a revival",
	"original_production_year": "integer, the year the show originally premiered",
	"production_type":          `string, e.g. "Broadway", "Off-Broadway", "West End", "Touring", "Regional"`,
	"plot_summary":             "string, a two to three sentence plot summary",
	"genre":                    `string, e.g. "Musical", "Play", "Musical Comedy"`,
	"tony_awards":              "array of strings, Tony Awards won by this production",
	"other_awards":             "array of strings, other notable awards won",
	"musical_numbers":          "array of strings, the principal musical numbers in order",
	"themes":                   "array of strings, the show's major themes",
	"running_time":             "integer, running time in minutes",
	"intermission_count":       "integer, number of intermissions",
	"llm_categories":           "array of strings, broad audience categories that describe this show",
}

// enrichableFieldOrder fixes the field listing order inside prompts so
// repeated calls are deterministic.
var enrichableFieldOrder = []string{
	"lead_cast", "director", "choreographer", "composer", "lyricist",
	"book_writer", "opening_date", "closing_date", "is_revival",
	"original_production_year", "production_type", "plot_summary", "genre",
	"tony_awards", "other_awards", "musical_numbers", "themes",
	"running_time", "intermission_count", "llm_categories",
}

const extractPrompt = `You are looking at a photograph of one or more theater playbills or show posters.
Identify every distinct show visible in the image.

Respond with only a JSON array. Each element must be an object with exactly
these keys:
  "show_name": the title of the show
  "theater_name": the theater where it is playing, or "" if not visible

Return [] if no shows are identifiable. Do not include any text outside the JSON.`

func buildEnrichPrompt(showName, theaterName string, fields []string) string {
	if len(fields) == 0 {
		fields = enrichableFieldOrder
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Provide factual metadata about the theater production %q", showName)
	if strings.TrimSpace(theaterName) != "" {
		fmt.Fprintf(&builder, " at %q", theaterName)
	}
	builder.WriteString(".\n\nRespond with only a JSON object containing these keys:\n")
	for _, field := range fields {
		description, ok := fieldDescriptions[field]
		if !ok {
			continue
		}
		fmt.Fprintf(&builder, "  %q: %s\n", field, description)
	}
	builder.WriteString("\nUse null for anything you do not know. Do not include any text outside the JSON.")
	return builder.String()
}

func buildMatchPrompt(showName, theaterName, plotSummary string, candidates []string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "The theater production %q", showName)
	if strings.TrimSpace(theaterName) != "" {
		fmt.Fprintf(&builder, " at %q", theaterName)
	}
	builder.WriteString(" has this plot summary:\n\n")
	builder.WriteString(strings.TrimSpace(plotSummary))
	builder.WriteString("\n\nFrom the following list, pick every category that fits the show:\n")
	for _, candidate := range candidates {
		fmt.Fprintf(&builder, "  - %s\n", candidate)
	}
	builder.WriteString("\nRespond with only a JSON array of the matching category names, exactly as written above. Return [] if none fit.")
	return builder.String()
}
