package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

type AccessService interface {
	// Grant gives the named user view access to the tournament. Only the
	// creator may grant, and granting to the creator is a no-op error.
	Grant(ctx context.Context, tournamentID, currentUserID int, granteeUsername string) (*models.TournamentAccess, error)
	ListGrants(ctx context.Context, tournamentID, currentUserID int) ([]models.TournamentAccess, error)
	Revoke(ctx context.Context, tournamentID, currentUserID, granteeUserID int) error
}

type accessService struct {
	accessRepo repositories.AccessRepository
	userRepo   repositories.UserRepository
	auth       tournamentAuthorizer
	logger     *slog.Logger
}

func NewAccessService(
	accessRepo repositories.AccessRepository,
	userRepo repositories.UserRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) AccessService {
	return &accessService{
		accessRepo: accessRepo,
		userRepo:   userRepo,
		auth:       tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
		logger:     logger,
	}
}

func (s *accessService) Grant(ctx context.Context, tournamentID, currentUserID int, granteeUsername string) (*models.TournamentAccess, error) {
	tournament, err := s.auth.mustOwn(ctx, tournamentID, currentUserID)
	if err != nil {
		return nil, err
	}

	grantee, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(granteeUsername))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user %q: %w", granteeUsername, err)
	}
	if grantee.ID == tournament.CreatorID {
		return nil, ErrAlreadyHasAccess
	}

	access := &models.TournamentAccess{
		TournamentID: tournamentID,
		UserID:       grantee.ID,
	}
	if err := s.accessRepo.Create(ctx, nil, access); err != nil {
		// The unique constraint makes concurrent duplicate grants collapse into
		// one row; both callers see the same outcome.
		if errors.Is(err, repositories.ErrAccessAlreadyGranted) {
			return nil, ErrAlreadyHasAccess
		}
		if errors.Is(err, repositories.ErrAccessRefInvalid) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to grant access: %w", err)
	}

	s.logger.Info("tournament access granted",
		slog.Int("tournament_id", tournamentID),
		slog.Int("grantee_id", grantee.ID),
		slog.Int("granted_by", currentUserID))

	access.User = grantee
	return access, nil
}

func (s *accessService) ListGrants(ctx context.Context, tournamentID, currentUserID int) ([]models.TournamentAccess, error) {
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.accessRepo.ListByTournament(ctx, tournamentID)
}

func (s *accessService) Revoke(ctx context.Context, tournamentID, currentUserID, granteeUserID int) error {
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return err
	}

	access, err := s.accessRepo.GetByTournamentAndUser(ctx, tournamentID, granteeUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccessNotFound) {
			return ErrAccessNotFound
		}
		return fmt.Errorf("failed to find access grant: %w", err)
	}

	if err := s.accessRepo.Delete(ctx, nil, access.ID); err != nil {
		if errors.Is(err, repositories.ErrAccessNotFound) {
			return ErrAccessNotFound
		}
		return fmt.Errorf("failed to revoke access: %w", err)
	}

	s.logger.Info("tournament access revoked",
		slog.Int("tournament_id", tournamentID),
		slog.Int("grantee_id", granteeUserID),
		slog.Int("revoked_by", currentUserID))
	return nil
}
