package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const showColumns = `id, show_name, theater_name, seen_status, date_attended,
    date_added, last_updated, rating, personal_notes, source_image_path,
    lead_cast, director, choreographer, composer, lyricist, book_writer,
    opening_date, closing_date, is_revival, original_production_year,
    production_type, plot_summary, genre, tony_awards, other_awards,
    musical_numbers, themes, running_time, intermission_count,
    llm_categories, user_categories`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*Show, error) {
	var (
		show                                     Show
		dateAttended, notes, imagePath           sql.NullString
		dateAdded, lastUpdated                   string
		rating                                   sql.NullInt64
		leadCast, director, choreographer        sql.NullString
		composer, lyricist, bookWriter           sql.NullString
		openingDate, closingDate                 sql.NullString
		isRevival, originalYear                  sql.NullInt64
		productionType, plotSummary, genre       sql.NullString
		tonyAwards, otherAwards, numbers, themes sql.NullString
		runningTime, intermissions               sql.NullInt64
		llmCategories, userCategories            sql.NullString
	)

	err := row.Scan(
		&show.ID, &show.ShowName, &show.TheaterName, &show.SeenStatus, &dateAttended,
		&dateAdded, &lastUpdated, &rating, &notes, &imagePath,
		&leadCast, &director, &choreographer, &composer, &lyricist, &bookWriter,
		&openingDate, &closingDate, &isRevival, &originalYear,
		&productionType, &plotSummary, &genre, &tonyAwards, &otherAwards,
		&numbers, &themes, &runningTime, &intermissions,
		&llmCategories, &userCategories,
	)
	if err != nil {
		return nil, err
	}

	show.DateAttended = dateAttended.String
	show.DateAdded = parseTimestamp(dateAdded)
	show.LastUpdated = parseTimestamp(lastUpdated)
	show.Rating = int(rating.Int64)
	show.PersonalNotes = notes.String
	show.SourceImagePath = imagePath.String

	show.LeadCast = decodeCast(leadCast)
	show.Director = director.String
	show.Choreographer = choreographer.String
	show.Composer = composer.String
	show.Lyricist = lyricist.String
	show.BookWriter = bookWriter.String
	show.OpeningDate = openingDate.String
	show.ClosingDate = closingDate.String
	if isRevival.Valid {
		value := isRevival.Int64 != 0
		show.IsRevival = &value
	}
	if originalYear.Valid {
		value := int(originalYear.Int64)
		show.OriginalProductionYear = &value
	}
	show.ProductionType = productionType.String
	show.PlotSummary = plotSummary.String
	show.Genre = genre.String
	show.TonyAwards = decodeStringList(tonyAwards)
	show.OtherAwards = decodeStringList(otherAwards)
	show.MusicalNumbers = decodeStringList(numbers)
	show.Themes = decodeStringList(themes)
	if runningTime.Valid {
		value := int(runningTime.Int64)
		show.RunningTime = &value
	}
	if intermissions.Valid {
		value := int(intermissions.Int64)
		show.IntermissionCount = &value
	}
	show.LLMCategories = decodeStringList(llmCategories)
	show.UserCategories = decodeStringList(userCategories)

	return &show, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// Corrupt stored JSON reads back as an empty list rather than failing the
// whole row.
func decodeStringList(value sql.NullString) []string {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(value.String), &out); err != nil {
		return nil
	}
	return out
}

func decodeCast(value sql.NullString) []CastMember {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil
	}
	var out []CastMember
	if err := json.Unmarshal([]byte(value.String), &out); err != nil {
		return nil
	}
	return out
}

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindBool
	kindJSON
	kindStatus
)

// updatableColumns is the whitelist for partial updates; anything else in a
// FieldUpdates map is rejected.
var updatableColumns = map[string]columnKind{
	"show_name":         kindText,
	"theater_name":      kindText,
	"seen_status":       kindStatus,
	"date_attended":     kindText,
	"rating":            kindInt,
	"personal_notes":    kindText,
	"source_image_path": kindText,

	"lead_cast":                kindJSON,
	"director":                 kindText,
	"choreographer":            kindText,
	"composer":                 kindText,
	"lyricist":                 kindText,
	"book_writer":              kindText,
	"opening_date":             kindText,
	"closing_date":             kindText,
	"is_revival":               kindBool,
	"original_production_year": kindInt,
	"production_type":          kindText,
	"plot_summary":             kindText,
	"genre":                    kindText,
	"tony_awards":              kindJSON,
	"other_awards":             kindJSON,
	"musical_numbers":          kindJSON,
	"themes":                   kindJSON,
	"running_time":             kindInt,
	"intermission_count":       kindInt,
	"llm_categories":           kindJSON,
	"user_categories":          kindJSON,
}

// convertColumnValue maps a caller-supplied value onto the SQL representation
// for its column. Values arrive both as native Go types and as the loose
// types produced by decoding provider JSON (float64 numbers, []any lists).
func convertColumnValue(column string, value any) (any, error) {
	kind, ok := updatableColumns[column]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", column)
	}
	if value == nil {
		return nil, nil
	}

	switch kind {
	case kindStatus:
		text, ok := value.(string)
		if !ok || !Status(text).Valid() {
			return nil, fmt.Errorf("invalid seen status %v", value)
		}
		return text, nil
	case kindText:
		if text, ok := value.(string); ok {
			return text, nil
		}
		return fmt.Sprint(value), nil
	case kindInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			return int64(v), nil
		case *int:
			if v == nil {
				return nil, nil
			}
			return int64(*v), nil
		case string:
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", column, err)
			}
			return int64(parsed), nil
		default:
			return nil, fmt.Errorf("field %q: unsupported value %T", column, value)
		}
	case kindBool:
		switch v := value.(type) {
		case bool:
			return boolToInt(v), nil
		case *bool:
			if v == nil {
				return nil, nil
			}
			return boolToInt(*v), nil
		case float64:
			return boolToInt(v != 0), nil
		default:
			return nil, fmt.Errorf("field %q: unsupported value %T", column, value)
		}
	case kindJSON:
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", column, err)
		}
		return string(encoded), nil
	default:
		return nil, fmt.Errorf("field %q: unsupported column kind", column)
	}
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

// UpdatableField reports whether a column may appear in a FieldUpdates map.
func UpdatableField(column string) bool {
	_, ok := updatableColumns[column]
	return ok
}
