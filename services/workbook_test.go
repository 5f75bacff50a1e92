package services

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"name*", "name"},
		{"name", "name"},
		{" Team_ID* ", "team_id"},
		{"MATCH_DATE", "match_date"},
		{"**points**", "points"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFlexibleDate(t *testing.T) {
	valid := []string{
		"2024-06-15",
		"2024-06-15 18:30:00",
		"2024/06/15",
		"06/15/2024",
		"6/15/2024",
		"June 15, 2024",
		"15 June 2024",
	}
	for _, v := range valid {
		parsed, err := parseFlexibleDate(v)
		if err != nil {
			t.Errorf("parseFlexibleDate(%q): %v", v, err)
			continue
		}
		if parsed.Year() != 2024 || int(parsed.Month()) != 6 || parsed.Day() != 15 {
			t.Errorf("parseFlexibleDate(%q) = %v, want 2024-06-15", v, parsed)
		}
	}

	for _, v := range []string{"not a date", "2024-13-45", "15.06"} {
		if _, err := parseFlexibleDate(v); err == nil {
			t.Errorf("parseFlexibleDate(%q) succeeded, want error", v)
		}
	}
}

func TestParseCellInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"42", 42, false},
		{"-3", -3, false},
		{"12.0", 12, false},
		{"87.00", 87, false},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCellInt(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCellInt(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCellInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// buildWorkbook assembles an in-memory workbook; each entry is a sheet name
// followed by its rows.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet %q: %v", name, err)
			}
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	return f
}

func minimalSheets() map[string][][]interface{} {
	return map[string][][]interface{}{
		"Tournament Details": {
			{"name*", "description", "year*", "start_date*", "end_date*"},
			{"Summer League", "annual", "2024", "2024-06-01", "2024-06-30"},
		},
		"Teams": {
			{"team_id*", "name*"},
			{"1", "Hawks"},
			{"2", "Bulls"},
		},
		"Players": {
			{"player_id*", "name*", "position*", "team_id*", "jersey_number"},
			{"1", "John Doe", "PG", "1", "7"},
		},
		"Matches": {
			{"match_id*", "team1_id*", "team2_id*", "match_date*", "venue_name"},
			{"1", "1", "2", "2024-06-10", "Main Arena"},
		},
		"Match Scores": {
			{"match_id*", "team1_score*", "team2_score*"},
			{"1", "87", "81"},
		},
		"Player Stats": {
			{"match_id*", "player_id*", "points*", "rebounds*", "assists*", "steals*", "blocks*", "turnovers*", "three_pointers"},
			{"1", "1", "15", "12", "5", "1", "2", "3", "2"},
		},
	}
}

func TestResolveSheetsAcceptsAliases(t *testing.T) {
	sheets := minimalSheets()
	sheets["Tournament"] = sheets["Tournament Details"]
	delete(sheets, "Tournament Details")
	sheets["Stats"] = sheets["Player Stats"]
	delete(sheets, "Player Stats")

	f := buildWorkbook(t, sheets)
	defer f.Close()

	tables, err := resolveSheets(f)
	if err != nil {
		t.Fatalf("resolveSheets: %v", err)
	}
	if len(tables) != len(sheetOrder) {
		t.Fatalf("resolved %d sheets, want %d", len(tables), len(sheetOrder))
	}
	if len(tables[sheetTournament].rows) != 1 {
		t.Errorf("tournament sheet rows = %d, want 1", len(tables[sheetTournament].rows))
	}
}

func TestResolveSheetsMissingSheet(t *testing.T) {
	sheets := minimalSheets()
	delete(sheets, "Players")

	f := buildWorkbook(t, sheets)
	defer f.Close()

	_, err := resolveSheets(f)
	var missing *MissingSheetsError
	if !errors.As(err, &missing) {
		t.Fatalf("resolveSheets error = %v, want MissingSheetsError", err)
	}
	if len(missing.Sheets) != 1 || missing.Sheets[0] != sheetPlayers {
		t.Errorf("missing sheets = %v, want [%s]", missing.Sheets, sheetPlayers)
	}
}

func TestResolveSheetsMissingColumns(t *testing.T) {
	sheets := minimalSheets()
	sheets["Teams"] = [][]interface{}{
		{"team_id*", "created_year"},
		{"1", "1998"},
	}

	f := buildWorkbook(t, sheets)
	defer f.Close()

	_, err := resolveSheets(f)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("resolveSheets error = %v, want MissingColumnsError", err)
	}
	if missing.Sheet != sheetTeams {
		t.Errorf("missing columns sheet = %q, want %q", missing.Sheet, sheetTeams)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "name" {
		t.Errorf("missing columns = %v, want [name]", missing.Columns)
	}
}

func TestResolveSheetsStripsHeaderMarkers(t *testing.T) {
	f := buildWorkbook(t, minimalSheets())
	defer f.Close()

	tables, err := resolveSheets(f)
	if err != nil {
		t.Fatalf("resolveSheets: %v", err)
	}

	teams := tables[sheetTeams]
	if _, ok := teams.columns["team_id"]; !ok {
		t.Error("team_id column not found after marker stripping")
	}
	if got := teams.cell(teams.rows[0], "name"); got != "Hawks" {
		t.Errorf("cell(name) = %q, want %q", got, "Hawks")
	}
}
