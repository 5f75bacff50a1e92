package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

type PlayerService interface {
	Create(ctx context.Context, teamID, currentUserID int, input PlayerInput) (*models.Player, error)
	GetByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID, currentUserID int) ([]models.Player, error)
	Update(ctx context.Context, playerID, currentUserID int, input PlayerInput) (*models.Player, error)
	// Delete removes the player and their stats rows in one transaction.
	Delete(ctx context.Context, playerID, currentUserID int) error
}

type PlayerInput struct {
	Name         string                `json:"name"`
	Height       *int                  `json:"height"`
	Weight       *int                  `json:"weight"`
	Position     models.PlayerPosition `json:"position"`
	JerseyNumber int                   `json:"jersey_number"`
}

type playerService struct {
	db         *sql.DB
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	statsRepo  repositories.PlayerStatsRepository
	auth       tournamentAuthorizer
}

func NewPlayerService(
	db *sql.DB,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	statsRepo repositories.PlayerStatsRepository,
	tournamentRepo repositories.TournamentRepository,
	accessRepo repositories.AccessRepository,
) PlayerService {
	return &playerService{
		db:         db,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		statsRepo:  statsRepo,
		auth:       tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
	}
}

func validatePlayerInput(input PlayerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrPlayerNameRequired
	}
	if !input.Position.Valid() {
		return ErrInvalidPlayerPosition
	}
	return nil
}

func (s *playerService) Create(ctx context.Context, teamID, currentUserID int, input PlayerInput) (*models.Player, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if _, err := s.auth.mustOwn(ctx, team.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}

	player := &models.Player{
		Name:         strings.TrimSpace(input.Name),
		Height:       input.Height,
		Weight:       input.Weight,
		Position:     input.Position,
		JerseyNumber: input.JerseyNumber,
		TeamID:       teamID,
		CreatorID:    currentUserID,
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) GetByID(ctx context.Context, playerID, currentUserID int) (*models.Player, error) {
	player, _, err := s.getVisiblePlayer(ctx, playerID, currentUserID)
	return player, err
}

func (s *playerService) ListByTeam(ctx context.Context, teamID, currentUserID int) ([]models.Player, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if _, err := s.auth.canView(ctx, team.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.playerRepo.ListByTeam(ctx, teamID)
}

func (s *playerService) Update(ctx context.Context, playerID, currentUserID int, input PlayerInput) (*models.Player, error) {
	player, team, err := s.getVisiblePlayer(ctx, playerID, currentUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.auth.mustOwn(ctx, team.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	if err := validatePlayerInput(input); err != nil {
		return nil, err
	}

	player.Name = strings.TrimSpace(input.Name)
	player.Height = input.Height
	player.Weight = input.Weight
	player.Position = input.Position
	player.JerseyNumber = input.JerseyNumber

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, playerID, currentUserID int) error {
	_, team, err := s.getVisiblePlayer(ctx, playerID, currentUserID)
	if err != nil {
		return err
	}
	if _, err := s.auth.mustOwn(ctx, team.TournamentID, currentUserID); err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.statsRepo.DeleteByPlayerID(ctx, tx, playerID); err != nil {
			return fmt.Errorf("failed to delete player stats: %w", err)
		}
		if err := s.playerRepo.Delete(ctx, tx, playerID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to delete player: %w", err)
		}
		return nil
	})
}

func (s *playerService) getVisiblePlayer(ctx context.Context, playerID, currentUserID int) (*models.Player, *models.Team, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, nil, ErrPlayerNotFound
		}
		return nil, nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	team, err := s.teamRepo.GetByID(ctx, player.TeamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get team %d: %w", player.TeamID, err)
	}
	if _, err := s.auth.canView(ctx, team.TournamentID, currentUserID); err != nil {
		return nil, nil, err
	}
	return player, team, nil
}
