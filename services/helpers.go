package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

// tournamentAuthorizer centralizes the two visibility rules: creators can do
// anything with their tournament, grantees can view it.
type tournamentAuthorizer struct {
	tournamentRepo repositories.TournamentRepository
	accessRepo     repositories.AccessRepository
}

// canView returns the tournament when userID is its creator or holds an
// access grant for it.
func (a *tournamentAuthorizer) canView(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	t, err := a.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if t.CreatorID == userID {
		return t, nil
	}
	_, err = a.accessRepo.GetByTournamentAndUser(ctx, tournamentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccessNotFound) {
			return nil, ErrForbiddenOperation
		}
		return nil, fmt.Errorf("failed to check access grant: %w", err)
	}
	return t, nil
}

// mustOwn returns the tournament only when userID created it.
func (a *tournamentAuthorizer) mustOwn(ctx context.Context, tournamentID, userID int) (*models.Tournament, error) {
	t, err := a.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}
	if t.CreatorID != userID {
		return nil, ErrForbiddenOperation
	}
	return t, nil
}

// runInTx wraps fn in a transaction with rollback on error or panic. A nil
// db runs fn directly; repositories fall back to their own handle then.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	if db == nil {
		return fn(nil)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
