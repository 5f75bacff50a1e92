package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/lib/pq"
)

var (
	ErrAccessNotFound       = errors.New("tournament access grant not found")
	ErrAccessAlreadyGranted = errors.New("tournament access already granted")
	ErrAccessRefInvalid     = errors.New("tournament access references invalid tournament or user")
)

type AccessRepository interface {
	Create(ctx context.Context, exec SQLExecutor, access *models.TournamentAccess) error
	GetByTournamentAndUser(ctx context.Context, tournamentID, userID int) (*models.TournamentAccess, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentAccess, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresAccessRepository struct {
	db *sql.DB
}

func NewPostgresAccessRepository(db *sql.DB) AccessRepository {
	return &postgresAccessRepository{db: db}
}

func (r *postgresAccessRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresAccessRepository) Create(ctx context.Context, exec SQLExecutor, access *models.TournamentAccess) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO tournament_access (tournament_id, user_id)
		VALUES ($1, $2)
		RETURNING id, access_granted`

	err := executor.QueryRowContext(ctx, query, access.TournamentID, access.UserID).
		Scan(&access.ID, &access.AccessGranted)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				// tournament_access_pair_key closes the check-then-insert race.
				return ErrAccessAlreadyGranted
			case "23503":
				return ErrAccessRefInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresAccessRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID int) (*models.TournamentAccess, error) {
	query := `
		SELECT id, tournament_id, user_id, access_granted
		FROM tournament_access
		WHERE tournament_id = $1 AND user_id = $2`

	access := &models.TournamentAccess{}
	err := r.db.QueryRowContext(ctx, query, tournamentID, userID).Scan(
		&access.ID, &access.TournamentID, &access.UserID, &access.AccessGranted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccessNotFound
		}
		return nil, err
	}
	return access, nil
}

func (r *postgresAccessRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.TournamentAccess, error) {
	query := `
		SELECT a.id, a.tournament_id, a.user_id, a.access_granted,
		       u.id, u.full_name, u.username, u.email, u.date_joined
		FROM tournament_access a
		JOIN users u ON u.id = a.user_id
		WHERE a.tournament_id = $1
		ORDER BY a.access_granted ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := make([]models.TournamentAccess, 0)
	for rows.Next() {
		var a models.TournamentAccess
		var u models.User
		if err := rows.Scan(
			&a.ID, &a.TournamentID, &a.UserID, &a.AccessGranted,
			&u.ID, &u.FullName, &u.Username, &u.Email, &u.DateJoined,
		); err != nil {
			return nil, err
		}
		a.User = &u
		grants = append(grants, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *postgresAccessRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournament_access WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAccessNotFound)
}

func (r *postgresAccessRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_access WHERE tournament_id = $1`, tournamentID)
	return err
}
