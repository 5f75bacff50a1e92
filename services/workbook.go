package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Logical sheet names. The workbook may use any of the accepted aliases; the
// canonical name is used in error messages and result reports.
const (
	sheetTournament = "Tournament Details"
	sheetTeams      = "Teams"
	sheetPlayers    = "Players"
	sheetMatches    = "Matches"
	sheetScores     = "Match Scores"
	sheetStats      = "Player Stats"
)

var sheetAliases = map[string][]string{
	sheetTournament: {"Tournament Details", "Tournament"},
	sheetTeams:      {"Teams", "Team"},
	sheetPlayers:    {"Players", "Player"},
	sheetMatches:    {"Matches", "Match"},
	sheetScores:     {"Match Scores", "Match Score", "Scores"},
	sheetStats:      {"Player Stats", "Player Statistics", "Stats"},
}

// Columns that must be present in the header of each sheet. A sheet missing
// any of them rejects the whole import before a single row is persisted.
var requiredColumns = map[string][]string{
	sheetTournament: {"name", "year", "start_date", "end_date"},
	sheetTeams:      {"team_id", "name"},
	sheetPlayers:    {"player_id", "name", "position", "team_id"},
	sheetMatches:    {"match_id", "team1_id", "team2_id", "match_date"},
	sheetScores:     {"match_id", "team1_score", "team2_score"},
	sheetStats:      {"match_id", "player_id", "points", "rebounds", "assists", "steals", "blocks", "turnovers"},
}

// sheetOrder is the processing order; each sheet may only reference natural
// keys defined by an earlier one.
var sheetOrder = []string{sheetTournament, sheetTeams, sheetPlayers, sheetMatches, sheetScores, sheetStats}

type MissingSheetsError struct {
	Sheets []string
}

func (e *MissingSheetsError) Error() string {
	return fmt.Sprintf("workbook is missing required sheets: %s", strings.Join(e.Sheets, ", "))
}

type MissingColumnsError struct {
	Sheet   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("sheet %q is missing required columns: %s", e.Sheet, strings.Join(e.Columns, ", "))
}

type DateParseError struct {
	Sheet string
	Row   int
	Field string
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("sheet %q row %d: cannot parse %s value %q as a date", e.Sheet, e.Row, e.Field, e.Value)
}

// RowSkippedError is returned instead of silently skipping a row when the
// import runs in strict mode.
type RowSkippedError struct {
	Sheet  string
	Row    int
	Reason string
}

func (e *RowSkippedError) Error() string {
	return fmt.Sprintf("sheet %q row %d: %s", e.Sheet, e.Row, e.Reason)
}

// sheetTable is one parsed sheet: normalized header lookup plus data rows.
type sheetTable struct {
	name    string
	columns map[string]int
	rows    [][]string
}

// normalizeHeader strips template marker characters so "name*" and "name"
// resolve to the same column.
func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "*", "")
	return strings.ToLower(strings.TrimSpace(h))
}

// resolveSheets locates all six logical sheets through their aliases and
// validates their headers. Any missing sheet or missing required column
// rejects the workbook as a whole.
func resolveSheets(f *excelize.File) (map[string]*sheetTable, error) {
	present := make(map[string]string)
	for _, actual := range f.GetSheetList() {
		present[normalizeHeader(actual)] = actual
	}

	tables := make(map[string]*sheetTable, len(sheetOrder))
	missing := []string{}
	for _, logical := range sheetOrder {
		found := ""
		for _, alias := range sheetAliases[logical] {
			if actual, ok := present[normalizeHeader(alias)]; ok {
				found = actual
				break
			}
		}
		if found == "" {
			missing = append(missing, logical)
			continue
		}

		rows, err := f.GetRows(found)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", found, err)
		}
		table := &sheetTable{name: logical, columns: make(map[string]int)}
		if len(rows) > 0 {
			for i, h := range rows[0] {
				key := normalizeHeader(h)
				if key != "" {
					table.columns[key] = i
				}
			}
			table.rows = rows[1:]
		}
		tables[logical] = table
	}
	if len(missing) > 0 {
		return nil, &MissingSheetsError{Sheets: missing}
	}

	for _, logical := range sheetOrder {
		table := tables[logical]
		missingCols := []string{}
		for _, col := range requiredColumns[logical] {
			if _, ok := table.columns[col]; !ok {
				missingCols = append(missingCols, col)
			}
		}
		if len(missingCols) > 0 {
			return nil, &MissingColumnsError{Sheet: logical, Columns: missingCols}
		}
	}
	return tables, nil
}

// cell returns the trimmed value of a named column in a row, or "" when the
// row is shorter than the column index.
func (t *sheetTable) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// missingValues lists required columns whose cell is empty in this row.
func (t *sheetTable) missingValues(row []string) []string {
	missing := []string{}
	for _, col := range requiredColumns[t.name] {
		if t.cell(row, col) == "" {
			missing = append(missing, col)
		}
	}
	return missing
}

// rowNumber converts a data-row index to the 1-based spreadsheet row number
// (header occupies row 1).
func rowNumber(i int) int { return i + 2 }

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"January 2, 2006",
	"2 January 2006",
}

// parseFlexibleDate tries the accepted human date formats in order.
func parseFlexibleDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", value)
}

// parseCellInt accepts both integer and float-formatted cells; spreadsheet
// tools often render whole numbers as "12.0".
func parseCellInt(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", value)
	}
	return int(f), nil
}
