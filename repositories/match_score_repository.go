package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/lib/pq"
)

var (
	ErrMatchScoreNotFound = errors.New("match score not found")
	ErrMatchScoreConflict = errors.New("match already has a score")
)

type MatchScoreRepository interface {
	Create(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error
	GetByMatchID(ctx context.Context, matchID int) (*models.MatchScore, error)
	Update(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
	DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchScoreRepository struct {
	db *sql.DB
}

func NewPostgresMatchScoreRepository(db *sql.DB) MatchScoreRepository {
	return &postgresMatchScoreRepository{db: db}
}

func (r *postgresMatchScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchScoreRepository) Create(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_scores (match_id, team1_score, team2_score)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		score.MatchID, score.Team1Score, score.Team2Score,
	).Scan(&score.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrMatchScoreConflict
		}
		return err
	}
	return nil
}

func (r *postgresMatchScoreRepository) GetByMatchID(ctx context.Context, matchID int) (*models.MatchScore, error) {
	query := `
		SELECT id, match_id, team1_score, team2_score
		FROM match_scores
		WHERE match_id = $1`

	score := &models.MatchScore{}
	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&score.ID, &score.MatchID, &score.Team1Score, &score.Team2Score,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchScoreNotFound
		}
		return nil, err
	}
	return score, nil
}

func (r *postgresMatchScoreRepository) Update(ctx context.Context, exec SQLExecutor, score *models.MatchScore) error {
	executor := r.getExecutor(exec)
	query := `UPDATE match_scores SET team1_score = $1, team2_score = $2 WHERE match_id = $3`

	result, err := executor.ExecContext(ctx, query, score.Team1Score, score.Team2Score, score.MatchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchScoreNotFound)
}

func (r *postgresMatchScoreRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM match_scores WHERE match_id = $1`, matchID)
	return err
}

func (r *postgresMatchScoreRepository) DeleteByTeamID(ctx context.Context, exec SQLExecutor, teamID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM match_scores
		WHERE match_id IN (SELECT id FROM matches WHERE team1_id = $1 OR team2_id = $1)`
	_, err := executor.ExecContext(ctx, query, teamID)
	return err
}

func (r *postgresMatchScoreRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	query := `
		DELETE FROM match_scores
		WHERE match_id IN (SELECT id FROM matches WHERE tournament_id = $1)`
	_, err := executor.ExecContext(ctx, query, tournamentID)
	return err
}
