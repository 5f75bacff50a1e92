package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, sheets map[string][][]interface{}) []byte {
	t.Helper()
	f := buildWorkbook(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func newImportFixture() (*fakeStore, ImportService) {
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	teamRepo := &fakeTeamRepo{store}
	matchRepo := &fakeMatchRepo{store}

	svc := NewImportService(
		nil,
		&fakeTournamentRepo{store},
		teamRepo,
		&fakePlayerRepo{store},
		matchRepo,
		&fakeScoreRepo{store},
		&fakeStatsRepo{store},
		NewStatsAggregator(teamRepo, matchRepo),
		nil,
		logger,
	)
	return store, svc
}

func TestImportWorkbook(t *testing.T) {
	store, svc := newImportFixture()

	result, err := svc.ImportWorkbook(context.Background(), 42, "summer.xlsx", workbookBytes(t, minimalSheets()), ImportOptions{})
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	tournament, ok := store.tournaments[result.TournamentID]
	if !ok {
		t.Fatalf("tournament %d not persisted", result.TournamentID)
	}
	if tournament.Name != "Summer League" || tournament.Year != 2024 {
		t.Errorf("tournament = %q/%d, want Summer League/2024", tournament.Name, tournament.Year)
	}
	if tournament.CreatorID != 42 {
		t.Errorf("tournament creator = %d, want 42", tournament.CreatorID)
	}

	wantCounts := map[string]int{
		sheetTeams: 2, sheetPlayers: 1, sheetMatches: 1, sheetScores: 1, sheetStats: 1,
	}
	for sheet, want := range wantCounts {
		if got := result.Sheets[sheet].Imported; got != want {
			t.Errorf("sheet %q imported = %d, want %d", sheet, got, want)
		}
		if got := result.Sheets[sheet].Skipped; got != 0 {
			t.Errorf("sheet %q skipped = %d, want 0", sheet, got)
		}
	}

	// Natural keys were remapped: the match references generated team IDs.
	var matchTeam1, matchTeam2 int
	for _, m := range store.matches {
		matchTeam1, matchTeam2 = m.Team1ID, m.Team2ID
	}
	if _, ok := store.teams[matchTeam1]; !ok {
		t.Errorf("match team1 %d does not resolve to a persisted team", matchTeam1)
	}
	if _, ok := store.teams[matchTeam2]; !ok {
		t.Errorf("match team2 %d does not resolve to a persisted team", matchTeam2)
	}

	// Derived stat columns were computed on the way in.
	for _, s := range store.stats {
		if s.Efficiency != 32 || !s.DoubleDouble || s.TripleDouble {
			t.Errorf("stats derived = eff %d dd %v td %v, want 32 true false", s.Efficiency, s.DoubleDouble, s.TripleDouble)
		}
	}

	// Final recompute ran: the 87-81 winner holds 1 win and 2 points.
	if team := store.teams[matchTeam1]; team.Wins != 1 || team.Points != 2 {
		t.Errorf("winning team record = %d wins %d points, want 1/2", team.Wins, team.Points)
	}
	if team := store.teams[matchTeam2]; team.Losses != 1 || team.Points != 0 {
		t.Errorf("losing team record = %d losses %d points, want 1/0", team.Losses, team.Points)
	}
}

func TestImportWorkbookMissingSheetCreatesNothing(t *testing.T) {
	store, svc := newImportFixture()

	sheets := minimalSheets()
	delete(sheets, "Players")

	_, err := svc.ImportWorkbook(context.Background(), 1, "broken.xlsx", workbookBytes(t, sheets), ImportOptions{})
	var missing *MissingSheetsError
	if !errors.As(err, &missing) {
		t.Fatalf("ImportWorkbook error = %v, want MissingSheetsError", err)
	}

	if len(store.tournaments) != 0 || len(store.teams) != 0 || len(store.matches) != 0 {
		t.Error("rows were persisted despite a missing sheet")
	}
}

func TestImportWorkbookSkipPropagation(t *testing.T) {
	store, svc := newImportFixture()

	sheets := minimalSheets()
	sheets["Teams"] = [][]interface{}{
		{"team_id*", "name*"},
		{"1", "Hawks"},
		{"2", ""}, // missing name, skipped
		{"3", "Celtics"},
	}
	sheets["Players"] = [][]interface{}{
		{"player_id*", "name*", "position*", "team_id*"},
		{"1", "John Doe", "PG", "1"},
		{"2", "Lost Player", "SG", "2"}, // references the skipped team
		{"3", "Jane Roe", "C", "3"},
	}
	sheets["Matches"] = [][]interface{}{
		{"match_id*", "team1_id*", "team2_id*", "match_date*"},
		{"1", "1", "3", "2024-06-10"},
	}

	result, err := svc.ImportWorkbook(context.Background(), 1, "teams.xlsx", workbookBytes(t, sheets), ImportOptions{})
	if err != nil {
		t.Fatalf("ImportWorkbook: %v", err)
	}

	if got := result.Sheets[sheetTeams]; got.Imported != 2 || got.Skipped != 1 {
		t.Errorf("teams report = %+v, want 2 imported 1 skipped", got)
	}
	if got := result.Sheets[sheetPlayers]; got.Imported != 2 || got.Skipped != 1 {
		t.Errorf("players report = %+v, want 2 imported 1 skipped", got)
	}
	for _, p := range store.players {
		if p.Name == "Lost Player" {
			t.Error("player referencing a skipped team was persisted")
		}
	}
}

func TestImportWorkbookBadDateAborts(t *testing.T) {
	_, svc := newImportFixture()

	sheets := minimalSheets()
	sheets["Matches"] = [][]interface{}{
		{"match_id*", "team1_id*", "team2_id*", "match_date*"},
		{"1", "1", "2", "sometime in June"},
	}

	_, err := svc.ImportWorkbook(context.Background(), 1, "dates.xlsx", workbookBytes(t, sheets), ImportOptions{})
	var dateErr *DateParseError
	if !errors.As(err, &dateErr) {
		t.Fatalf("ImportWorkbook error = %v, want DateParseError", err)
	}
	if dateErr.Sheet != sheetMatches || dateErr.Row != 2 || dateErr.Field != "match_date" {
		t.Errorf("date error = %+v, want Matches row 2 match_date", dateErr)
	}
}

func TestImportWorkbookStrictMode(t *testing.T) {
	_, svc := newImportFixture()

	sheets := minimalSheets()
	sheets["Teams"] = [][]interface{}{
		{"team_id*", "name*"},
		{"1", "Hawks"},
		{"2", ""},
	}

	_, err := svc.ImportWorkbook(context.Background(), 1, "strict.xlsx", workbookBytes(t, sheets), ImportOptions{Strict: true})
	var skipped *RowSkippedError
	if !errors.As(err, &skipped) {
		t.Fatalf("ImportWorkbook error = %v, want RowSkippedError", err)
	}
	if skipped.Sheet != sheetTeams || skipped.Row != 3 {
		t.Errorf("row error = %+v, want Teams row 3", skipped)
	}
}

func TestBuildTemplateRoundTrip(t *testing.T) {
	_, svc := newImportFixture()

	data, err := svc.BuildTemplate()
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer f.Close()

	// The template's own headers must pass the importer's sheet validation.
	if _, err := resolveSheets(f); err != nil {
		t.Errorf("template does not satisfy the importer: %v", err)
	}
}
