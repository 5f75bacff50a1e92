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
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchRefInvalid  = errors.New("match references invalid tournament or team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	// ListScoredByTournament returns matches that have a score, with the score
	// populated. Used by the team record recompute, so it accepts an executor.
	ListScoredByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (tournament_id, team1_id, team2_id, venue_name, match_date, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID, match.Team1ID, match.Team2ID,
		match.VenueName, match.MatchDate, match.CreatorID,
	).Scan(&match.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMatchRefInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.venue_name, m.match_date, m.creator_id,
		       s.id, s.team1_score, s.team2_score
		FROM matches m
		LEFT JOIN match_scores s ON s.match_id = m.id
		WHERE m.id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	match, err := scanMatchWithScore(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.venue_name, m.match_date, m.creator_id,
		       s.id, s.team1_score, s.team2_score
		FROM matches m
		LEFT JOIN match_scores s ON s.match_id = m.id
		WHERE m.tournament_id = $1
		ORDER BY m.match_date ASC, m.id ASC`
	return r.listWithScores(ctx, r.db, query, tournamentID)
}

func (r *postgresMatchRepository) ListScoredByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT m.id, m.tournament_id, m.team1_id, m.team2_id, m.venue_name, m.match_date, m.creator_id,
		       s.id, s.team1_score, s.team2_score
		FROM matches m
		JOIN match_scores s ON s.match_id = m.id
		WHERE m.tournament_id = $1
		ORDER BY m.match_date ASC, m.id ASC`
	return r.listWithScores(ctx, executor, query, tournamentID)
}

func (r *postgresMatchRepository) listWithScores(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		match, err := scanMatchWithScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func scanMatchWithScore(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	var scoreID, team1Score, team2Score sql.NullInt64

	err := scanner.Scan(
		&m.ID, &m.TournamentID, &m.Team1ID, &m.Team2ID, &m.VenueName, &m.MatchDate, &m.CreatorID,
		&scoreID, &team1Score, &team2Score,
	)
	if err != nil {
		return nil, err
	}

	if scoreID.Valid {
		m.Score = &models.MatchScore{
			ID:         int(scoreID.Int64),
			MatchID:    m.ID,
			Team1Score: int(team1Score.Int64),
			Team2Score: int(team2Score.Int64),
		}
	}
	return &m, nil
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			team1_id = $1,
			team2_id = $2,
			venue_name = $3,
			match_date = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		match.Team1ID, match.Team2ID, match.VenueName, match.MatchDate, match.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrMatchRefInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE team1_id = $1 OR team2_id = $1`, teamID)
	return err
}

func (r *postgresMatchRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}
