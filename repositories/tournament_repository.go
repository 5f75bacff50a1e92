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
	ErrTournamentNotFound       = errors.New("tournament not found")
	ErrTournamentCreatorInvalid = errors.New("tournament creator invalid")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	ListByCreator(ctx context.Context, creatorID int) ([]models.Tournament, error)
	// ListVisibleToUser returns tournaments the user created plus tournaments
	// shared with them, each at most once.
	ListVisibleToUser(ctx context.Context, userID int) ([]models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournaments (name, description, year, start_date, end_date, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Year, t.StartDate, t.EndDate, t.CreatorID,
	).Scan(&t.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return ErrTournamentCreatorInvalid
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, description, year, start_date, end_date, creator_id
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Year, &t.StartDate, &t.EndDate, &t.CreatorID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByCreator(ctx context.Context, creatorID int) ([]models.Tournament, error) {
	query := `
		SELECT id, name, description, year, start_date, end_date, creator_id
		FROM tournaments
		WHERE creator_id = $1
		ORDER BY year DESC, id DESC`
	return r.list(ctx, query, creatorID)
}

func (r *postgresTournamentRepository) ListVisibleToUser(ctx context.Context, userID int) ([]models.Tournament, error) {
	query := `
		SELECT id, name, description, year, start_date, end_date, creator_id
		FROM tournaments
		WHERE creator_id = $1
		UNION
		SELECT t.id, t.name, t.description, t.year, t.start_date, t.end_date, t.creator_id
		FROM tournaments t
		JOIN tournament_access a ON a.tournament_id = t.id
		WHERE a.user_id = $1
		ORDER BY year DESC, id DESC`
	return r.list(ctx, query, userID)
}

func (r *postgresTournamentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Year, &t.StartDate, &t.EndDate, &t.CreatorID); err != nil {
			return nil, fmt.Errorf("failed to scan tournament: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			year = $3,
			start_date = $4,
			end_date = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.Year, t.StartDate, t.EndDate, t.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
