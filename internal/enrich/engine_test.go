package enrich_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/enrich"
	"marquee/internal/metadata"
	"marquee/internal/testsupport"
)

func seedShow(t *testing.T, store *catalog.Store) int64 {
	t.Helper()
	id, err := store.Insert(context.Background(), catalog.NewShow{
		ShowName:    "Hadestown",
		TheaterName: "Walter Kerr Theatre",
	})
	if err != nil {
		t.Fatalf("seed show: %v", err)
	}
	return id
}

func fullyEnrichedUpdates() catalog.FieldUpdates {
	return catalog.FieldUpdates{
		"lead_cast":                []catalog.CastMember{{Role: "Orpheus", Actor: "Reeve Carney"}},
		"director":                 "Rachel Chavkin",
		"choreographer":            "David Neumann",
		"composer":                 "Anaïs Mitchell",
		"lyricist":                 "Anaïs Mitchell",
		"book_writer":              "Anaïs Mitchell",
		"opening_date":             "2019-04-17",
		"closing_date":             "",
		"is_revival":               false,
		"original_production_year": 2016,
		"production_type":          "Broadway",
		"plot_summary":             "Orpheus descends to Hadestown to win Eurydice back.",
		"genre":                    "Musical",
		"tony_awards":              []string{"Best Musical"},
		"other_awards":             []string{"Grammy Award for Best Musical Theater Album"},
		"musical_numbers":          []string{"Road to Hell", "Wait for Me"},
		"themes":                   []string{"love", "doubt"},
		"running_time":             150,
		"intermission_count":       1,
		"llm_categories":           []string{"folk opera"},
	}
}

func TestEnrichSkipsProviderWhenNothingMissing(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	updates := fullyEnrichedUpdates()
	updates["closing_date"] = "2099-01-01"
	if err := store.Update(ctx, id, updates); err != nil {
		t.Fatalf("prefill show: %v", err)
	}

	fake := &testsupport.FakeCompleter{}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), nil, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if show == nil || show.Director != "Rachel Chavkin" {
		t.Fatalf("unexpected show: %+v", show)
	}
	if fake.CallCount() != 0 {
		t.Fatalf("provider called %d times, want 0", fake.CallCount())
	}
}

func TestEnrichRequestsOnlyMissingAndDiscardsExtras(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{"director": "Rachel Chavkin"}); err != nil {
		t.Fatalf("prefill director: %v", err)
	}

	// The reply tries to overwrite director even though it was not requested.
	fake := &testsupport.FakeCompleter{Responses: []string{
		`{"genre":"Musical","director":"Somebody Else","box_office":"irrelevant"}`,
	}}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), nil, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if show.Genre != "Musical" {
		t.Fatalf("genre = %q, want Musical", show.Genre)
	}
	if show.Director != "Rachel Chavkin" {
		t.Fatalf("director = %q, unrequested field must be discarded", show.Director)
	}

	prompt := fake.Requests[0].Prompt
	if strings.Contains(prompt, `"director"`) {
		t.Fatalf("prompt should not request a present field:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"genre"`) {
		t.Fatalf("prompt should request missing fields:\n%s", prompt)
	}
}

func TestEnrichForceRequestsFullSchemaAndOverwrites(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{"director": "Old Director"}); err != nil {
		t.Fatalf("prefill director: %v", err)
	}

	fake := &testsupport.FakeCompleter{Responses: []string{
		`{"director":"Rachel Chavkin","is_revival":false,"running_time":150}`,
	}}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), nil, nil)

	show, err := engine.Enrich(ctx, id, true)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if show.Director != "Rachel Chavkin" {
		t.Fatalf("director = %q, force must overwrite", show.Director)
	}
	if show.IsRevival == nil || *show.IsRevival {
		t.Fatalf("is_revival = %v, want false", show.IsRevival)
	}
	if show.RunningTime == nil || *show.RunningTime != 150 {
		t.Fatalf("running_time = %v, want 150", show.RunningTime)
	}
	if fake.CallCount() != 1 {
		t.Fatalf("provider called %d times, want 1", fake.CallCount())
	}
	if !strings.Contains(fake.Requests[0].Prompt, `"musical_numbers"`) {
		t.Fatal("force prompt should request the full schema")
	}
}

func TestEnrichMatchesUserCategories(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{"user_categories": []string{"stale"}}); err != nil {
		t.Fatalf("prefill user_categories: %v", err)
	}

	fake := &testsupport.FakeCompleter{Responses: []string{
		`{"plot_summary":"Orpheus descends to Hadestown."}`,
		`["Date Night"]`,
	}}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), []string{"Date Night", "Family Friendly"}, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(show.UserCategories) != 1 || show.UserCategories[0] != "Date Night" {
		t.Fatalf("user_categories = %v, want [Date Night]", show.UserCategories)
	}
	if fake.CallCount() != 2 {
		t.Fatalf("provider called %d times, want 2", fake.CallCount())
	}
}

func TestEnrichCategoryFailureDoesNotBlockPersist(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{"user_categories": []string{"stale"}}); err != nil {
		t.Fatalf("prefill user_categories: %v", err)
	}

	// The second (category match) call has no queued response and fails.
	fake := &testsupport.FakeCompleter{Responses: []string{
		`{"plot_summary":"Orpheus descends to Hadestown.","genre":"Musical"}`,
	}}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), []string{"Date Night"}, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if show.Genre != "Musical" {
		t.Fatalf("genre = %q, accepted fields must persist", show.Genre)
	}
	if len(show.UserCategories) != 0 {
		t.Fatalf("user_categories = %v, want empty after match failure", show.UserCategories)
	}
}

func TestEnrichProviderFailureDegradesToEmptyResult(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{
		"plot_summary":    "Orpheus descends to Hadestown.",
		"user_categories": []string{"stale"},
	}); err != nil {
		t.Fatalf("prefill show: %v", err)
	}

	fake := &testsupport.FakeCompleter{Err: errors.New("backend down")}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), []string{"Date Night"}, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if show == nil {
		t.Fatal("Enrich returned nil show")
	}
	if show.Genre != "" {
		t.Fatalf("genre = %q, nothing should have been filled", show.Genre)
	}
	if len(show.UserCategories) != 0 {
		t.Fatalf("user_categories = %v, want empty after match failure", show.UserCategories)
	}
}

func TestEnrichMalformedPayloadStillRefreshesCategories(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := seedShow(t, store)

	if err := store.Update(ctx, id, catalog.FieldUpdates{
		"plot_summary": "Orpheus descends to Hadestown.",
	}); err != nil {
		t.Fatalf("prefill plot summary: %v", err)
	}

	// The enrichment reply is garbage; the category match still succeeds
	// against the stored plot summary.
	fake := &testsupport.FakeCompleter{Responses: []string{
		`this is not json`,
		`["Date Night"]`,
	}}
	engine := enrich.NewEngine(store, metadata.NewService(fake, nil), []string{"Date Night", "Family Friendly"}, nil)

	show, err := engine.Enrich(ctx, id, false)
	if err != nil {
		t.Fatalf("Enrich returned error: %v", err)
	}
	if len(show.UserCategories) != 1 || show.UserCategories[0] != "Date Night" {
		t.Fatalf("user_categories = %v, want [Date Night]", show.UserCategories)
	}
	if fake.CallCount() != 2 {
		t.Fatalf("provider called %d times, want 2", fake.CallCount())
	}
}

func TestEnrichMissingShow(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	engine := enrich.NewEngine(store, metadata.NewService(&testsupport.FakeCompleter{}, nil), nil, nil)

	_, err := engine.Enrich(context.Background(), 404, false)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSelectMissingFields(t *testing.T) {
	show := &catalog.Show{
		Director:    "Rachel Chavkin",
		PlotSummary: "A summary.",
	}
	missing := enrich.SelectMissingFields(show)

	for _, field := range missing {
		if field == "director" || field == "plot_summary" {
			t.Fatalf("%s should not be missing", field)
		}
	}
	want := map[string]bool{"is_revival": false, "running_time": false, "llm_categories": false}
	for _, field := range missing {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, found := range want {
		if !found {
			t.Fatalf("%s should be reported missing", field)
		}
	}
}
