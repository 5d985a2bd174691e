package enrich

import (
	"strings"

	"marquee/internal/catalog"
)

type fieldSpec struct {
	name    string
	missing func(*catalog.Show) bool
}

func textMissing(get func(*catalog.Show) string) func(*catalog.Show) bool {
	return func(show *catalog.Show) bool {
		return strings.TrimSpace(get(show)) == ""
	}
}

func listMissing(get func(*catalog.Show) []string) func(*catalog.Show) bool {
	return func(show *catalog.Show) bool {
		return len(get(show)) == 0
	}
}

// enrichableFields is the ordered set of columns enrichment may fill. A
// field is missing when its value is NULL, empty text, or an empty list;
// pointer fields distinguish an enriched zero from never enriched.
var enrichableFields = []fieldSpec{
	{"lead_cast", func(s *catalog.Show) bool { return len(s.LeadCast) == 0 }},
	{"director", textMissing(func(s *catalog.Show) string { return s.Director })},
	{"choreographer", textMissing(func(s *catalog.Show) string { return s.Choreographer })},
	{"composer", textMissing(func(s *catalog.Show) string { return s.Composer })},
	{"lyricist", textMissing(func(s *catalog.Show) string { return s.Lyricist })},
	{"book_writer", textMissing(func(s *catalog.Show) string { return s.BookWriter })},
	{"opening_date", textMissing(func(s *catalog.Show) string { return s.OpeningDate })},
	{"closing_date", textMissing(func(s *catalog.Show) string { return s.ClosingDate })},
	{"is_revival", func(s *catalog.Show) bool { return s.IsRevival == nil }},
	{"original_production_year", func(s *catalog.Show) bool { return s.OriginalProductionYear == nil }},
	{"production_type", textMissing(func(s *catalog.Show) string { return s.ProductionType })},
	{"plot_summary", textMissing(func(s *catalog.Show) string { return s.PlotSummary })},
	{"genre", textMissing(func(s *catalog.Show) string { return s.Genre })},
	{"tony_awards", listMissing(func(s *catalog.Show) []string { return s.TonyAwards })},
	{"other_awards", listMissing(func(s *catalog.Show) []string { return s.OtherAwards })},
	{"musical_numbers", listMissing(func(s *catalog.Show) []string { return s.MusicalNumbers })},
	{"themes", listMissing(func(s *catalog.Show) []string { return s.Themes })},
	{"running_time", func(s *catalog.Show) bool { return s.RunningTime == nil }},
	{"intermission_count", func(s *catalog.Show) bool { return s.IntermissionCount == nil }},
	{"llm_categories", listMissing(func(s *catalog.Show) []string { return s.LLMCategories })},
}

var enrichableSet = func() map[string]bool {
	set := make(map[string]bool, len(enrichableFields))
	for _, field := range enrichableFields {
		set[field.name] = true
	}
	return set
}()

// SelectMissingFields returns the enrichable fields a show still lacks, in
// the canonical field order.
func SelectMissingFields(show *catalog.Show) []string {
	var missing []string
	for _, field := range enrichableFields {
		if field.missing(show) {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// IsEnrichable reports whether enrichment may write the named field.
func IsEnrichable(name string) bool {
	return enrichableSet[name]
}
