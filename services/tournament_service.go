package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, currentUserID int, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, tournamentID, currentUserID int) (*models.Tournament, error)
	ListVisible(ctx context.Context, currentUserID int) ([]models.Tournament, error)
	Update(ctx context.Context, tournamentID, currentUserID int, input TournamentInput) (*models.Tournament, error)
	// Delete removes the tournament and its whole subtree (teams, players,
	// matches, scores, player stats, access grants) in one transaction.
	Delete(ctx context.Context, tournamentID, currentUserID int) error
}

type TournamentInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Year        int     `json:"year"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	scoreRepo      repositories.MatchScoreRepository
	statsRepo      repositories.PlayerStatsRepository
	accessRepo     repositories.AccessRepository
	auth           tournamentAuthorizer
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.MatchScoreRepository,
	statsRepo repositories.PlayerStatsRepository,
	accessRepo repositories.AccessRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		scoreRepo:      scoreRepo,
		statsRepo:      statsRepo,
		accessRepo:     accessRepo,
		auth:           tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
		logger:         logger,
	}
}

func validateTournamentInput(input TournamentInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrTournamentNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return ErrTournamentInvalidDates
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, currentUserID int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Year:        input.Year,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatorID:   currentUserID,
	}
	if err := s.tournamentRepo.Create(ctx, nil, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, tournamentID, currentUserID int) (*models.Tournament, error) {
	t, err := s.auth.canView(ctx, tournamentID, currentUserID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	t.Teams = teams

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	t.Matches = matches

	return t, nil
}

func (s *tournamentService) ListVisible(ctx context.Context, currentUserID int) ([]models.Tournament, error) {
	return s.tournamentRepo.ListVisibleToUser(ctx, currentUserID)
}

func (s *tournamentService) Update(ctx context.Context, tournamentID, currentUserID int, input TournamentInput) (*models.Tournament, error) {
	t, err := s.auth.mustOwn(ctx, tournamentID, currentUserID)
	if err != nil {
		return nil, err
	}
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	t.Name = strings.TrimSpace(input.Name)
	t.Description = input.Description
	t.Year = input.Year
	t.StartDate = input.StartDate
	t.EndDate = input.EndDate

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", tournamentID, err)
	}
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, tournamentID, currentUserID int) error {
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return err
	}

	// Ordered children-first cascade. The schema has no ON DELETE CASCADE, so
	// the order here is what keeps the foreign keys satisfied.
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.statsRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete player stats: %w", err)
		}
		if err := s.scoreRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete match scores: %w", err)
		}
		if err := s.matchRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err := s.playerRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete players: %w", err)
		}
		if err := s.teamRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete teams: %w", err)
		}
		if err := s.accessRepo.DeleteByTournamentID(ctx, tx, tournamentID); err != nil {
			return fmt.Errorf("failed to delete access grants: %w", err)
		}
		if err := s.tournamentRepo.Delete(ctx, tx, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to delete tournament: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("tournament deleted with cascade",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", currentUserID))
	return nil
}
