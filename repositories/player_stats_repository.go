package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/lib/pq"
)

var (
	ErrPlayerStatsNotFound   = errors.New("player stats not found")
	ErrPlayerStatsConflict   = errors.New("player already has stats for this match")
	ErrPlayerStatsRefInvalid = errors.New("player stats reference invalid match or player")
)

type PlayerStatsRepository interface {
	Create(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error
	GetByID(ctx context.Context, id int) (*models.PlayerStats, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.PlayerStats, error)
	ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerStats, error)
	Update(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
	DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPlayerStatsRepository struct {
	db *sql.DB
}

func NewPostgresPlayerStatsRepository(db *sql.DB) PlayerStatsRepository {
	return &postgresPlayerStatsRepository{db: db}
}

func (r *postgresPlayerStatsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerStatsColumns = `id, match_id, player_id, points, rebounds, assists, steals, blocks,
	turnovers, three_pointers, efficiency, double_double, triple_double`

func (r *postgresPlayerStatsRepository) Create(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO player_stats (match_id, player_id, points, rebounds, assists, steals, blocks,
			turnovers, three_pointers, efficiency, double_double, triple_double)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		stats.MatchID, stats.PlayerID, stats.Points, stats.Rebounds, stats.Assists,
		stats.Steals, stats.Blocks, stats.Turnovers, stats.ThreePointers,
		stats.Efficiency, stats.DoubleDouble, stats.TripleDouble,
	).Scan(&stats.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return ErrPlayerStatsConflict
			case "23503":
				return ErrPlayerStatsRefInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPlayerStatsRepository) GetByID(ctx context.Context, id int) (*models.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE id = $1`

	stats := &models.PlayerStats{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&stats.ID, &stats.MatchID, &stats.PlayerID, &stats.Points, &stats.Rebounds,
		&stats.Assists, &stats.Steals, &stats.Blocks, &stats.Turnovers, &stats.ThreePointers,
		&stats.Efficiency, &stats.DoubleDouble, &stats.TripleDouble,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerStatsNotFound
		}
		return nil, err
	}
	return stats, nil
}

func (r *postgresPlayerStatsRepository) ListByMatch(ctx context.Context, matchID int) ([]models.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE match_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, matchID)
}

func (r *postgresPlayerStatsRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.PlayerStats, error) {
	query := `SELECT ` + playerStatsColumns + ` FROM player_stats WHERE player_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, playerID)
}

func (r *postgresPlayerStatsRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.PlayerStats, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statsList := make([]models.PlayerStats, 0)
	for rows.Next() {
		var s models.PlayerStats
		if err := rows.Scan(
			&s.ID, &s.MatchID, &s.PlayerID, &s.Points, &s.Rebounds,
			&s.Assists, &s.Steals, &s.Blocks, &s.Turnovers, &s.ThreePointers,
			&s.Efficiency, &s.DoubleDouble, &s.TripleDouble,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		statsList = append(statsList, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return statsList, nil
}

func (r *postgresPlayerStatsRepository) Update(ctx context.Context, exec SQLExecutor, stats *models.PlayerStats) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE player_stats SET
			points = $1, rebounds = $2, assists = $3, steals = $4, blocks = $5,
			turnovers = $6, three_pointers = $7,
			efficiency = $8, double_double = $9, triple_double = $10
		WHERE id = $11`

	result, err := executor.ExecContext(ctx, query,
		stats.Points, stats.Rebounds, stats.Assists, stats.Steals, stats.Blocks,
		stats.Turnovers, stats.ThreePointers,
		stats.Efficiency, stats.DoubleDouble, stats.TripleDouble,
		stats.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerStatsNotFound)
}

func (r *postgresPlayerStatsRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresPlayerStatsRepository) DeleteByPlayerID(ctx context.Context, exec SQLExecutor, playerID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM player_stats WHERE player_id = $1`, playerID)
	return err
}

func (r *postgresPlayerStatsRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	// Covers both directions: stats of the team's own players, and stats any
	// player posted in a match this team played.
	query := `
		DELETE FROM player_stats
		WHERE player_id IN (SELECT id FROM players WHERE team_id = $1)
		   OR match_id IN (SELECT id FROM matches WHERE team1_id = $1 OR team2_id = $1)`
	_, err := executor.ExecContext(ctx, query, teamID)
	return err
}

func (r *postgresPlayerStatsRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM player_stats
		WHERE match_id IN (SELECT id FROM matches WHERE tournament_id = $1)`
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}
