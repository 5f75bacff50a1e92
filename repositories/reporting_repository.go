package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hoopstack/hoops-manager/models"
)

// ReportingFilter narrows the read-side aggregations. Nil fields mean "all".
type ReportingFilter struct {
	TournamentID *int
	TeamID       *int
	PlayerID     *int
}

// ReportingRepository holds the read-only aggregation queries behind the
// visualize endpoints. Everything is computed per request, nothing is cached.
type ReportingRepository interface {
	TeamStandings(ctx context.Context, filter ReportingFilter) ([]models.StandingRow, error)
	PointsDistribution(ctx context.Context, filter ReportingFilter) ([]models.PointsDistributionRow, error)
	TopScorers(ctx context.Context, filter ReportingFilter, limit int) ([]models.PlayerAverageRow, error)
	EfficiencyLeaders(ctx context.Context, filter ReportingFilter, limit int) ([]models.PlayerAverageRow, error)
	// RecentScoredMatches returns the last `limit` scored matches, newest first.
	RecentScoredMatches(ctx context.Context, filter ReportingFilter, limit int) ([]models.Match, error)
	DoubleLeaders(ctx context.Context, filter ReportingFilter, limit int) ([]models.DoubleLeaderRow, error)
	TeamRecords(ctx context.Context, filter ReportingFilter) ([]models.TeamRecordRow, error)
}

type postgresReportingRepository struct {
	db *sql.DB
}

func NewPostgresReportingRepository(db *sql.DB) ReportingRepository {
	return &postgresReportingRepository{db: db}
}

func (r *postgresReportingRepository) TeamStandings(ctx context.Context, filter ReportingFilter) ([]models.StandingRow, error) {
	query := `
		SELECT id, name, wins, losses, points
		FROM teams`
	args := []interface{}{}
	if filter.TournamentID != nil {
		query += ` WHERE tournament_id = $1`
		args = append(args, *filter.TournamentID)
	}
	// Ties stay in insertion order: id ASC keeps the sort stable.
	query += ` ORDER BY wins DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := make([]models.StandingRow, 0)
	for rows.Next() {
		var row models.StandingRow
		if err := rows.Scan(&row.TeamID, &row.TeamName, &row.Wins, &row.Losses, &row.Points); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, row)
	}
	return standings, rows.Err()
}

func (r *postgresReportingRepository) PointsDistribution(ctx context.Context, filter ReportingFilter) ([]models.PointsDistributionRow, error) {
	query := `
		SELECT t.id, t.name,
		       COUNT(s.id),
		       COALESCE(AVG(CASE WHEN m.team1_id = t.id THEN s.team1_score ELSE s.team2_score END), 0),
		       COALESCE(AVG(CASE WHEN m.team1_id = t.id THEN s.team2_score ELSE s.team1_score END), 0)
		FROM teams t
		LEFT JOIN matches m ON m.team1_id = t.id OR m.team2_id = t.id
		LEFT JOIN match_scores s ON s.match_id = m.id`
	args := []interface{}{}
	if filter.TournamentID != nil {
		query += ` WHERE t.tournament_id = $1`
		args = append(args, *filter.TournamentID)
	}
	query += ` GROUP BY t.id, t.name ORDER BY t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]models.PointsDistributionRow, 0)
	for rows.Next() {
		var row models.PointsDistributionRow
		if err := rows.Scan(&row.TeamID, &row.TeamName, &row.GamesPlayed, &row.AvgPointsFor, &row.AvgPointsAgainst); err != nil {
			return nil, fmt.Errorf("failed to scan points distribution row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *postgresReportingRepository) TopScorers(ctx context.Context, filter ReportingFilter, limit int) ([]models.PlayerAverageRow, error) {
	return r.playerAverages(ctx, "ps.points", filter, limit)
}

func (r *postgresReportingRepository) EfficiencyLeaders(ctx context.Context, filter ReportingFilter, limit int) ([]models.PlayerAverageRow, error) {
	return r.playerAverages(ctx, "ps.efficiency", filter, limit)
}

// playerAverages averages one stat column per player across games in which a
// stats row exists, descending, top N.
func (r *postgresReportingRepository) playerAverages(ctx context.Context, column string, filter ReportingFilter, limit int) ([]models.PlayerAverageRow, error) {
	query := `
		SELECT p.id, p.name, t.name, COUNT(ps.id), AVG(` + column + `)
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		JOIN teams t ON t.id = p.team_id
		JOIN matches m ON m.id = ps.match_id`

	where, args := buildReportingWhere(filter, "m.tournament_id", "p.team_id", "p.id")
	query += where
	args = append(args, limit)
	query += fmt.Sprintf(` GROUP BY p.id, p.name, t.name ORDER BY 5 DESC, p.id ASC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaders := make([]models.PlayerAverageRow, 0)
	for rows.Next() {
		var row models.PlayerAverageRow
		if err := rows.Scan(&row.PlayerID, &row.Name, &row.TeamName, &row.Games, &row.Average); err != nil {
			return nil, fmt.Errorf("failed to scan player average row: %w", err)
		}
		leaders = append(leaders, row)
	}
	return leaders, rows.Err()
}

func (r *postgresReportingRepository) RecentScoredMatches(ctx context.Context, filter ReportingFilter, limit int) ([]models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.venue_name, m.match_date, m.creator_id,
		       s.id, s.team1_score, s.team2_score
		FROM matches m
		JOIN match_scores s ON s.match_id = m.id`
	args := []interface{}{}
	if filter.TournamentID != nil {
		query += ` WHERE m.tournament_id = $1`
		args = append(args, *filter.TournamentID)
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY m.match_date DESC, m.id DESC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanMatchWithScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scored match: %w", err)
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func (r *postgresReportingRepository) DoubleLeaders(ctx context.Context, filter ReportingFilter, limit int) ([]models.DoubleLeaderRow, error) {
	query := `
		SELECT p.id, p.name, t.name,
		       COUNT(*) FILTER (WHERE ps.double_double),
		       COUNT(*) FILTER (WHERE ps.triple_double)
		FROM player_stats ps
		JOIN players p ON p.id = ps.player_id
		JOIN teams t ON t.id = p.team_id
		JOIN matches m ON m.id = ps.match_id`

	where, args := buildReportingWhere(filter, "m.tournament_id", "p.team_id", "p.id")
	query += where
	args = append(args, limit)
	query += fmt.Sprintf(` GROUP BY p.id, p.name, t.name ORDER BY 5 DESC, 4 DESC, p.id ASC LIMIT $%d`, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaders := make([]models.DoubleLeaderRow, 0)
	for rows.Next() {
		var row models.DoubleLeaderRow
		if err := rows.Scan(&row.PlayerID, &row.Name, &row.TeamName, &row.DoubleDoubles, &row.TripleDoubles); err != nil {
			return nil, fmt.Errorf("failed to scan double leader row: %w", err)
		}
		leaders = append(leaders, row)
	}
	return leaders, rows.Err()
}

func (r *postgresReportingRepository) TeamRecords(ctx context.Context, filter ReportingFilter) ([]models.TeamRecordRow, error) {
	query := `
		SELECT t.id, t.name,
		       COUNT(s.id),
		       COUNT(s.id) FILTER (WHERE (m.team1_id = t.id AND s.team1_score > s.team2_score)
		                              OR (m.team2_id = t.id AND s.team2_score > s.team1_score)),
		       COUNT(s.id) FILTER (WHERE (m.team1_id = t.id AND s.team1_score < s.team2_score)
		                              OR (m.team2_id = t.id AND s.team2_score < s.team1_score)),
		       COALESCE(AVG(CASE WHEN m.team1_id = t.id THEN s.team1_score ELSE s.team2_score END), 0),
		       COALESCE(AVG(CASE WHEN m.team1_id = t.id THEN s.team2_score ELSE s.team1_score END), 0),
		       COALESCE(SUM(CASE WHEN m.team1_id = t.id THEN s.team1_score - s.team2_score
		                         ELSE s.team2_score - s.team1_score END), 0)
		FROM teams t
		LEFT JOIN matches m ON m.team1_id = t.id OR m.team2_id = t.id
		LEFT JOIN match_scores s ON s.match_id = m.id`
	args := []interface{}{}
	if filter.TournamentID != nil {
		query += ` WHERE t.tournament_id = $1`
		args = append(args, *filter.TournamentID)
	}
	query += ` GROUP BY t.id, t.name ORDER BY t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.TeamRecordRow, 0)
	for rows.Next() {
		var row models.TeamRecordRow
		if err := rows.Scan(
			&row.TeamID, &row.TeamName, &row.GamesPlayed, &row.Wins, &row.Losses,
			&row.AvgPointsFor, &row.AvgPointsAgainst, &row.PointDifferential,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team record row: %w", err)
		}
		if row.GamesPlayed > 0 {
			row.WinPercentage = float64(row.Wins) / float64(row.GamesPlayed) * 100
		}
		records = append(records, row)
	}
	return records, rows.Err()
}

// buildReportingWhere assembles an optional WHERE clause from the filter,
// mapping each set field onto the given column expression.
func buildReportingWhere(filter ReportingFilter, tournamentCol, teamCol, playerCol string) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	add := func(col string, val int) {
		if clause == "" {
			clause = " WHERE "
		} else {
			clause += " AND "
		}
		args = append(args, val)
		clause += fmt.Sprintf("%s = $%d", col, len(args))
	}
	if filter.TournamentID != nil {
		add(tournamentCol, *filter.TournamentID)
	}
	if filter.TeamID != nil {
		add(teamCol, *filter.TeamID)
	}
	if filter.PlayerID != nil {
		add(playerCol, *filter.PlayerID)
	}
	return clause, args
}
