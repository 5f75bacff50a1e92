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

type TeamService interface {
	Create(ctx context.Context, tournamentID, currentUserID int, input TeamInput) (*models.Team, error)
	GetByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID, currentUserID int) ([]models.Team, error)
	Update(ctx context.Context, teamID, currentUserID int, input TeamInput) (*models.Team, error)
	// Delete removes the team together with its players, the matches it took
	// part in, their scores and stats, then recomputes the remaining teams'
	// records, all in one transaction.
	Delete(ctx context.Context, teamID, currentUserID int) error
}

type TeamInput struct {
	Name           string `json:"name"`
	CreatedYear    *int   `json:"created_year"`
	LogoShapeType  int    `json:"logo_shape_type"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

type teamService struct {
	db         *sql.DB
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	matchRepo  repositories.MatchRepository
	scoreRepo  repositories.MatchScoreRepository
	statsRepo  repositories.PlayerStatsRepository
	aggregator StatsAggregator
	auth       tournamentAuthorizer
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.MatchScoreRepository,
	statsRepo repositories.PlayerStatsRepository,
	tournamentRepo repositories.TournamentRepository,
	accessRepo repositories.AccessRepository,
	aggregator StatsAggregator,
) TeamService {
	return &teamService{
		db:         db,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		matchRepo:  matchRepo,
		scoreRepo:  scoreRepo,
		statsRepo:  statsRepo,
		aggregator: aggregator,
		auth:       tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
	}
}

func (s *teamService) Create(ctx context.Context, tournamentID, currentUserID int, input TeamInput) (*models.Team, error) {
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:           strings.TrimSpace(input.Name),
		CreatedYear:    input.CreatedYear,
		LogoShapeType:  input.LogoShapeType,
		PrimaryColor:   input.PrimaryColor,
		SecondaryColor: input.SecondaryColor,
		CreatorID:      currentUserID,
		TournamentID:   tournamentID,
	}
	if team.LogoShapeType == 0 {
		team.LogoShapeType = 1
	}
	if team.PrimaryColor == "" {
		team.PrimaryColor = "#000000"
	}
	if team.SecondaryColor == "" {
		team.SecondaryColor = "#FFFFFF"
	}

	if err := s.teamRepo.Create(ctx, nil, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
	team, err := s.getVisibleTeam(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	team.Players = players
	return team, nil
}

func (s *teamService) ListByTournament(ctx context.Context, tournamentID, currentUserID int) ([]models.Team, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.teamRepo.ListByTournament(ctx, nil, tournamentID)
}

func (s *teamService) Update(ctx context.Context, teamID, currentUserID int, input TeamInput) (*models.Team, error) {
	team, err := s.getOwnedTeam(ctx, teamID, currentUserID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTeamNameRequired
	}

	team.Name = strings.TrimSpace(input.Name)
	team.CreatedYear = input.CreatedYear
	if input.LogoShapeType != 0 {
		team.LogoShapeType = input.LogoShapeType
	}
	if input.PrimaryColor != "" {
		team.PrimaryColor = input.PrimaryColor
	}
	if input.SecondaryColor != "" {
		team.SecondaryColor = input.SecondaryColor
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, teamID, currentUserID int) error {
	team, err := s.getOwnedTeam(ctx, teamID, currentUserID)
	if err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.statsRepo.DeleteByTeamID(ctx, tx, teamID); err != nil {
			return fmt.Errorf("failed to delete player stats: %w", err)
		}
		if err := s.scoreRepo.DeleteByTeamID(ctx, tx, teamID); err != nil {
			return fmt.Errorf("failed to delete match scores: %w", err)
		}
		if err := s.matchRepo.DeleteByTeamID(ctx, tx, teamID); err != nil {
			return fmt.Errorf("failed to delete matches: %w", err)
		}
		if err := s.playerRepo.DeleteByTeamID(ctx, tx, teamID); err != nil {
			return fmt.Errorf("failed to delete players: %w", err)
		}
		if err := s.teamRepo.Delete(ctx, tx, teamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to delete team: %w", err)
		}
		// Removing the team removed its matches, so every other record in the
		// tournament has to be rebuilt.
		return s.aggregator.RecomputeTeamStats(ctx, tx, team.TournamentID)
	})
}

func (s *teamService) getVisibleTeam(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
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
	return team, nil
}

func (s *teamService) getOwnedTeam(ctx context.Context, teamID, currentUserID int) (*models.Team, error) {
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
	return team, nil
}
