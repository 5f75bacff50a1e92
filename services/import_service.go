package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
	"github.com/hoopstack/hoops-manager/storage"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportOptions struct {
	// Strict turns every row that would be silently skipped into a whole-import
	// failure naming the row and the reason.
	Strict bool `json:"strict"`
}

type SheetReport struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ImportResult struct {
	TournamentID int                    `json:"tournament_id"`
	Sheets       map[string]SheetReport `json:"sheets"`
	ArchiveURL   string                 `json:"archive_url,omitempty"`
}

// ImportService ingests a six-sheet workbook describing a whole tournament
// and persists it atomically under freshly generated primary keys.
type ImportService interface {
	ImportWorkbook(ctx context.Context, currentUserID int, filename string, data []byte, opts ImportOptions) (*ImportResult, error)
	// BuildTemplate renders an empty workbook with the expected sheets and
	// headers, required columns marked with an asterisk.
	BuildTemplate() ([]byte, error)
}

type importService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	scoreRepo      repositories.MatchScoreRepository
	statsRepo      repositories.PlayerStatsRepository
	aggregator     StatsAggregator
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewImportService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.MatchScoreRepository,
	statsRepo repositories.PlayerStatsRepository,
	aggregator StatsAggregator,
	uploader storage.FileUploader,
	logger *slog.Logger,
) ImportService {
	return &importService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		scoreRepo:      scoreRepo,
		statsRepo:      statsRepo,
		aggregator:     aggregator,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *importService) ImportWorkbook(ctx context.Context, currentUserID int, filename string, data []byte, opts ImportOptions) (*ImportResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	tables, err := resolveSheets(f)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Sheets: make(map[string]SheetReport, len(sheetOrder))}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.importAll(ctx, tx, tables, currentUserID, opts, result)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workbook imported",
		slog.Int("tournament_id", result.TournamentID),
		slog.Int("user_id", currentUserID),
		slog.String("filename", filename))

	result.ArchiveURL = s.archiveWorkbook(ctx, result.TournamentID, filename, data)
	return result, nil
}

// archiveWorkbook stores the raw workbook in object storage. Failures are
// logged and swallowed: the import already committed.
func (s *importService) archiveWorkbook(ctx context.Context, tournamentID int, filename string, data []byte) string {
	if s.uploader == nil {
		return ""
	}
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "workbook.xlsx"
	}
	key := fmt.Sprintf("imports/%d/%s", tournamentID, name)

	uploaded, err := s.uploader.Upload(ctx, key, workbookContentType, bytes.NewReader(data))
	if err != nil {
		s.logger.Error("failed to archive imported workbook",
			slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return uploaded.Location
}

// importAll runs the whole pipeline in sheet order on one transaction; each
// sheet may only reference natural keys mapped by an earlier one.
func (s *importService) importAll(ctx context.Context, tx *sql.Tx, tables map[string]*sheetTable, currentUserID int, opts ImportOptions, result *ImportResult) error {
	tournamentID, err := s.importTournament(ctx, tx, tables[sheetTournament], currentUserID)
	if err != nil {
		return err
	}
	result.TournamentID = tournamentID

	teamIDs, err := s.importTeams(ctx, tx, tables[sheetTeams], tournamentID, currentUserID, opts, result)
	if err != nil {
		return err
	}
	playerIDs, err := s.importPlayers(ctx, tx, tables[sheetPlayers], teamIDs, currentUserID, opts, result)
	if err != nil {
		return err
	}
	matchIDs, err := s.importMatches(ctx, tx, tables[sheetMatches], tournamentID, teamIDs, currentUserID, opts, result)
	if err != nil {
		return err
	}
	if err := s.importScores(ctx, tx, tables[sheetScores], matchIDs, opts, result); err != nil {
		return err
	}
	if err := s.importStats(ctx, tx, tables[sheetStats], matchIDs, playerIDs, opts, result); err != nil {
		return err
	}

	return s.aggregator.RecomputeTeamStats(ctx, tx, tournamentID)
}

// skipRow records a skipped row, or fails the import when running strict.
func skipRow(sheet string, rowIdx int, reason string, opts ImportOptions, result *ImportResult) error {
	if opts.Strict {
		return &RowSkippedError{Sheet: sheet, Row: rowNumber(rowIdx), Reason: reason}
	}
	report := result.Sheets[sheet]
	report.Skipped++
	result.Sheets[sheet] = report
	return nil
}

func countImported(sheet string, result *ImportResult) {
	report := result.Sheets[sheet]
	report.Imported++
	result.Sheets[sheet] = report
}

// importTournament reads the first complete row of the tournament sheet. A
// workbook that defines no valid tournament has nothing to attach the other
// sheets to, so that is a hard failure even in lenient mode.
func (s *importService) importTournament(ctx context.Context, tx *sql.Tx, table *sheetTable, currentUserID int) (int, error) {
	for i, row := range table.rows {
		if len(table.missingValues(row)) > 0 {
			continue
		}
		year, err := parseCellInt(table.cell(row, "year"))
		if err != nil {
			continue
		}
		startDate, err := parseFlexibleDate(table.cell(row, "start_date"))
		if err != nil {
			return 0, &DateParseError{Sheet: table.name, Row: rowNumber(i), Field: "start_date", Value: table.cell(row, "start_date")}
		}
		endDate, err := parseFlexibleDate(table.cell(row, "end_date"))
		if err != nil {
			return 0, &DateParseError{Sheet: table.name, Row: rowNumber(i), Field: "end_date", Value: table.cell(row, "end_date")}
		}

		t := &models.Tournament{
			Name:      table.cell(row, "name"),
			Year:      year,
			StartDate: startDate,
			EndDate:   endDate,
			CreatorID: currentUserID,
		}
		if desc := table.cell(row, "description"); desc != "" {
			t.Description = &desc
		}
		if err := s.tournamentRepo.Create(ctx, tx, t); err != nil {
			return 0, fmt.Errorf("failed to create tournament: %w", err)
		}
		return t.ID, nil
	}
	return 0, ErrImportEmptyTournament
}

func (s *importService) importTeams(ctx context.Context, tx *sql.Tx, table *sheetTable, tournamentID, currentUserID int, opts ImportOptions, result *ImportResult) (map[string]int, error) {
	teamIDs := make(map[string]int)
	for i, row := range table.rows {
		if missing := table.missingValues(row); len(missing) > 0 {
			if err := skipRow(table.name, i, "missing values: "+strings.Join(missing, ", "), opts, result); err != nil {
				return nil, err
			}
			continue
		}

		team := &models.Team{
			Name:           table.cell(row, "name"),
			LogoShapeType:  1,
			PrimaryColor:   "#000000",
			SecondaryColor: "#FFFFFF",
			CreatorID:      currentUserID,
			TournamentID:   tournamentID,
		}
		if v := table.cell(row, "created_year"); v != "" {
			if year, err := parseCellInt(v); err == nil {
				team.CreatedYear = &year
			}
		}
		if v := table.cell(row, "logo_shape_type"); v != "" {
			if shape, err := parseCellInt(v); err == nil && shape > 0 {
				team.LogoShapeType = shape
			}
		}
		if v := table.cell(row, "primary_color"); v != "" {
			team.PrimaryColor = v
		}
		if v := table.cell(row, "secondary_color"); v != "" {
			team.SecondaryColor = v
		}
		// wins/losses/points columns from the workbook are ignored: the final
		// recompute derives them from the imported scores.

		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			return nil, fmt.Errorf("failed to create team: %w", err)
		}
		teamIDs[table.cell(row, "team_id")] = team.ID
		countImported(table.name, result)
	}
	return teamIDs, nil
}

func (s *importService) importPlayers(ctx context.Context, tx *sql.Tx, table *sheetTable, teamIDs map[string]int, currentUserID int, opts ImportOptions, result *ImportResult) (map[string]int, error) {
	playerIDs := make(map[string]int)
	for i, row := range table.rows {
		if missing := table.missingValues(row); len(missing) > 0 {
			if err := skipRow(table.name, i, "missing values: "+strings.Join(missing, ", "), opts, result); err != nil {
				return nil, err
			}
			continue
		}
		teamID, ok := teamIDs[table.cell(row, "team_id")]
		if !ok {
			if err := skipRow(table.name, i, "unknown team_id "+table.cell(row, "team_id"), opts, result); err != nil {
				return nil, err
			}
			continue
		}
		position := models.PlayerPosition(strings.ToUpper(table.cell(row, "position")))
		if !position.Valid() {
			if err := skipRow(table.name, i, "invalid position "+table.cell(row, "position"), opts, result); err != nil {
				return nil, err
			}
			continue
		}

		player := &models.Player{
			Name:      table.cell(row, "name"),
			Position:  position,
			TeamID:    teamID,
			CreatorID: currentUserID,
		}
		if v := table.cell(row, "height"); v != "" {
			if height, err := parseCellInt(v); err == nil {
				player.Height = &height
			}
		}
		if v := table.cell(row, "weight"); v != "" {
			if weight, err := parseCellInt(v); err == nil {
				player.Weight = &weight
			}
		}
		if v := table.cell(row, "jersey_number"); v != "" {
			if number, err := parseCellInt(v); err == nil {
				player.JerseyNumber = number
			}
		}

		if err := s.playerRepo.Create(ctx, tx, player); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		playerIDs[table.cell(row, "player_id")] = player.ID
		countImported(table.name, result)
	}
	return playerIDs, nil
}

func (s *importService) importMatches(ctx context.Context, tx *sql.Tx, table *sheetTable, tournamentID int, teamIDs map[string]int, currentUserID int, opts ImportOptions, result *ImportResult) (map[string]int, error) {
	matchIDs := make(map[string]int)
	for i, row := range table.rows {
		if missing := table.missingValues(row); len(missing) > 0 {
			if err := skipRow(table.name, i, "missing values: "+strings.Join(missing, ", "), opts, result); err != nil {
				return nil, err
			}
			continue
		}
		team1ID, ok1 := teamIDs[table.cell(row, "team1_id")]
		team2ID, ok2 := teamIDs[table.cell(row, "team2_id")]
		if !ok1 || !ok2 {
			if err := skipRow(table.name, i, "unknown team reference", opts, result); err != nil {
				return nil, err
			}
			continue
		}
		if team1ID == team2ID {
			if err := skipRow(table.name, i, "identical teams", opts, result); err != nil {
				return nil, err
			}
			continue
		}
		// The one row-level problem that escalates: a bad date fails the
		// whole import rather than skipping the row.
		matchDate, err := parseFlexibleDate(table.cell(row, "match_date"))
		if err != nil {
			return nil, &DateParseError{Sheet: table.name, Row: rowNumber(i), Field: "match_date", Value: table.cell(row, "match_date")}
		}

		match := &models.Match{
			TournamentID: tournamentID,
			Team1ID:      team1ID,
			Team2ID:      team2ID,
			MatchDate:    matchDate,
			CreatorID:    currentUserID,
		}
		if venue := table.cell(row, "venue_name"); venue != "" {
			match.VenueName = &venue
		}

		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, fmt.Errorf("failed to create match: %w", err)
		}
		matchIDs[table.cell(row, "match_id")] = match.ID
		countImported(table.name, result)
	}
	return matchIDs, nil
}

func (s *importService) importScores(ctx context.Context, tx *sql.Tx, table *sheetTable, matchIDs map[string]int, opts ImportOptions, result *ImportResult) error {
	for i, row := range table.rows {
		if missing := table.missingValues(row); len(missing) > 0 {
			if err := skipRow(table.name, i, "missing values: "+strings.Join(missing, ", "), opts, result); err != nil {
				return err
			}
			continue
		}
		matchID, ok := matchIDs[table.cell(row, "match_id")]
		if !ok {
			if err := skipRow(table.name, i, "unknown match_id "+table.cell(row, "match_id"), opts, result); err != nil {
				return err
			}
			continue
		}
		team1Score, err1 := parseCellInt(table.cell(row, "team1_score"))
		team2Score, err2 := parseCellInt(table.cell(row, "team2_score"))
		if err1 != nil || err2 != nil || team1Score < 0 || team2Score < 0 {
			if err := skipRow(table.name, i, "invalid score values", opts, result); err != nil {
				return err
			}
			continue
		}

		score := &models.MatchScore{MatchID: matchID, Team1Score: team1Score, Team2Score: team2Score}
		if err := s.scoreRepo.Create(ctx, tx, score); err != nil {
			return fmt.Errorf("failed to create match score: %w", err)
		}
		countImported(table.name, result)
	}
	return nil
}

func (s *importService) importStats(ctx context.Context, tx *sql.Tx, table *sheetTable, matchIDs, playerIDs map[string]int, opts ImportOptions, result *ImportResult) error {
	for i, row := range table.rows {
		if missing := table.missingValues(row); len(missing) > 0 {
			if err := skipRow(table.name, i, "missing values: "+strings.Join(missing, ", "), opts, result); err != nil {
				return err
			}
			continue
		}
		matchID, okM := matchIDs[table.cell(row, "match_id")]
		playerID, okP := playerIDs[table.cell(row, "player_id")]
		if !okM || !okP {
			if err := skipRow(table.name, i, "unknown match or player reference", opts, result); err != nil {
				return err
			}
			continue
		}

		stats := &models.PlayerStats{MatchID: matchID, PlayerID: playerID}
		counters := []struct {
			column string
			dest   *int
		}{
			{"points", &stats.Points},
			{"rebounds", &stats.Rebounds},
			{"assists", &stats.Assists},
			{"steals", &stats.Steals},
			{"blocks", &stats.Blocks},
			{"turnovers", &stats.Turnovers},
		}
		valid := true
		for _, c := range counters {
			v, err := parseCellInt(table.cell(row, c.column))
			if err != nil || v < 0 {
				valid = false
				break
			}
			*c.dest = v
		}
		if !valid {
			if err := skipRow(table.name, i, "invalid stat values", opts, result); err != nil {
				return err
			}
			continue
		}
		if v := table.cell(row, "three_pointers"); v != "" {
			if n, err := parseCellInt(v); err == nil && n >= 0 {
				stats.ThreePointers = n
			}
		}
		ComputeDerived(stats)

		if err := s.statsRepo.Create(ctx, tx, stats); err != nil {
			return fmt.Errorf("failed to create player stats: %w", err)
		}
		countImported(table.name, result)
	}
	return nil
}

// templateHeaders mirrors requiredColumns with the optional columns appended;
// required columns carry the asterisk marker the importer strips back off.
var templateHeaders = map[string][]string{
	sheetTournament: {"name*", "description", "year*", "start_date*", "end_date*"},
	sheetTeams:      {"team_id*", "name*", "created_year", "logo_shape_type", "primary_color", "secondary_color"},
	sheetPlayers:    {"player_id*", "name*", "height", "weight", "position*", "jersey_number", "team_id*"},
	sheetMatches:    {"match_id*", "team1_id*", "team2_id*", "match_date*", "venue_name"},
	sheetScores:     {"match_id*", "team1_score*", "team2_score*"},
	sheetStats:      {"match_id*", "player_id*", "points*", "rebounds*", "assists*", "steals*", "blocks*", "turnovers*", "three_pointers"},
}

func (s *importService) BuildTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheetOrder {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("failed to rename template sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, fmt.Errorf("failed to add template sheet %q: %w", sheet, err)
			}
		}
		for col, header := range templateHeaders[sheet] {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, fmt.Errorf("failed to compute template cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, header); err != nil {
				return nil, fmt.Errorf("failed to write template header: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template workbook: %w", err)
	}
	return buf.Bytes(), nil
}
