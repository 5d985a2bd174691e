package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"marquee/internal/config"
)

// Store manages show persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.DatabasePath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert creates a new show record and returns its identifier. A collision
// with the natural key reports ErrDuplicateShow.
func (s *Store) Insert(ctx context.Context, data NewShow) (int64, error) {
	status := data.SeenStatus
	if status == "" {
		status = StatusSeen
	}
	if !status.Valid() {
		return 0, fmt.Errorf("invalid seen status %q", data.SeenStatus)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO shows (
            show_name, theater_name, seen_status, date_attended,
            date_added, last_updated, rating, personal_notes, source_image_path
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.ShowName,
		data.TheaterName,
		status,
		nullableString(data.DateAttended),
		timestamp,
		timestamp,
		nullableInt(data.Rating),
		nullableString(data.PersonalNotes),
		nullableString(data.SourceImagePath),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateShow
		}
		return 0, fmt.Errorf("insert show: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetByID fetches a show by identifier. A missing record returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+showColumns+` FROM shows WHERE id = ?`, id)
	show, err := scanShow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get show: %w", err)
	}
	return show, nil
}

// ListAll returns every cataloged show ordered by identifier.
func (s *Store) ListAll(ctx context.Context) ([]*Show, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+showColumns+` FROM shows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()
	return collectShows(rows)
}

// Update applies a partial update to an existing show. Column values are
// validated against the updatable set; the last_updated timestamp always
// advances. A missing record reports ErrNotFound.
func (s *Store) Update(ctx context.Context, id int64, updates FieldUpdates) error {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates))
	for column := range updates {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+2)
	for _, column := range columns {
		value, err := convertColumnValue(column, updates[column])
		if err != nil {
			return err
		}
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	assignments = append(assignments, "last_updated = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339Nano), id)

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE shows SET `+strings.Join(assignments, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateShow
		}
		return fmt.Errorf("update show: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Filters narrows and orders a Search. Name, theater, genre, and category
// filters are case-insensitive substring matches; status and rating bounds
// are exact.
type Filters struct {
	ShowName     string
	TheaterName  string
	SeenStatus   Status
	Genre        string
	Category     string
	UserCategory string
	RatingMin    int
	RatingMax    int
	SortBy       string
	SortOrder    string
}

var sortColumns = map[string]string{
	"name":    "show_name COLLATE NOCASE",
	"theater": "theater_name COLLATE NOCASE",
	"rating":  "rating",
	"date":    "date_added",
}

// Search returns shows matching the filters. With no sort the newest
// additions come first.
func (s *Store) Search(ctx context.Context, filters Filters) ([]*Show, error) {
	var clauses []string
	var args []any

	addLike := func(column, value string) {
		if value != "" {
			clauses = append(clauses, column+" LIKE ?")
			args = append(args, "%"+value+"%")
		}
	}
	addLike("show_name", filters.ShowName)
	addLike("theater_name", filters.TheaterName)
	addLike("genre", filters.Genre)
	addLike("llm_categories", filters.Category)
	addLike("user_categories", filters.UserCategory)

	if filters.SeenStatus != "" {
		if !filters.SeenStatus.Valid() {
			return nil, fmt.Errorf("invalid seen status %q", filters.SeenStatus)
		}
		clauses = append(clauses, "seen_status = ?")
		args = append(args, filters.SeenStatus)
	}
	if filters.RatingMin > 0 {
		clauses = append(clauses, "rating >= ?")
		args = append(args, filters.RatingMin)
	}
	if filters.RatingMax > 0 {
		clauses = append(clauses, "rating <= ?")
		args = append(args, filters.RatingMax)
	}

	query := `SELECT ` + showColumns + ` FROM shows`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	orderBy := "date_added DESC"
	if filters.SortBy != "" {
		column, ok := sortColumns[strings.ToLower(filters.SortBy)]
		if !ok {
			return nil, fmt.Errorf("unknown sort field %q", filters.SortBy)
		}
		orderBy = column
		if strings.EqualFold(filters.SortOrder, "desc") {
			orderBy += " DESC"
		}
	}
	query += " ORDER BY " + orderBy

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	defer rows.Close()
	return collectShows(rows)
}

// MarkImageProcessed records that a playbill image has been ingested.
func (s *Store) MarkImageProcessed(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO processed_images (path, processed_at) VALUES (?, ?)`,
		path,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("mark image processed: %w", err)
	}
	return nil
}

// IsImageProcessed reports whether a playbill image was ingested before.
func (s *Store) IsImageProcessed(ctx context.Context, path string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM processed_images WHERE path = ?`, path).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check processed image: %w", err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

func collectShows(rows *sql.Rows) ([]*Show, error) {
	var shows []*Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, show)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return shows, nil
}
