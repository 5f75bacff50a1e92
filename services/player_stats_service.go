package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

type PlayerStatsService interface {
	Create(ctx context.Context, currentUserID int, input PlayerStatsInput) (*models.PlayerStats, error)
	GetByID(ctx context.Context, statsID, currentUserID int) (*models.PlayerStats, error)
	ListByMatch(ctx context.Context, matchID, currentUserID int) ([]models.PlayerStats, error)
	ListByPlayer(ctx context.Context, playerID, currentUserID int) ([]models.PlayerStats, error)
	Update(ctx context.Context, statsID, currentUserID int, input StatLineInput) (*models.PlayerStats, error)
	Delete(ctx context.Context, statsID, currentUserID int) error
}

type PlayerStatsInput struct {
	MatchID  int `json:"match_id"`
	PlayerID int `json:"player_id"`
	StatLineInput
}

// StatLineInput carries only the raw counters; the derived columns are always
// recomputed server-side.
type StatLineInput struct {
	Points        int `json:"points"`
	Rebounds      int `json:"rebounds"`
	Assists       int `json:"assists"`
	Steals        int `json:"steals"`
	Blocks        int `json:"blocks"`
	Turnovers     int `json:"turnovers"`
	ThreePointers int `json:"three_pointers"`
}

func (in StatLineInput) validate() error {
	for _, v := range []int{in.Points, in.Rebounds, in.Assists, in.Steals, in.Blocks, in.Turnovers, in.ThreePointers} {
		if v < 0 {
			return ErrNegativeStatValue
		}
	}
	return nil
}

type playerStatsService struct {
	statsRepo  repositories.PlayerStatsRepository
	matchRepo  repositories.MatchRepository
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	auth       tournamentAuthorizer
}

func NewPlayerStatsService(
	statsRepo repositories.PlayerStatsRepository,
	matchRepo repositories.MatchRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	accessRepo repositories.AccessRepository,
) PlayerStatsService {
	return &playerStatsService{
		statsRepo:  statsRepo,
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		auth:       tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
	}
}

func (s *playerStatsService) Create(ctx context.Context, currentUserID int, input PlayerStatsInput) (*models.PlayerStats, error) {
	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", input.MatchID, err)
	}
	if _, err := s.auth.mustOwn(ctx, match.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	if _, err := s.playerRepo.GetByID(ctx, input.PlayerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", input.PlayerID, err)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	stats := &models.PlayerStats{
		MatchID:       input.MatchID,
		PlayerID:      input.PlayerID,
		Points:        input.Points,
		Rebounds:      input.Rebounds,
		Assists:       input.Assists,
		Steals:        input.Steals,
		Blocks:        input.Blocks,
		Turnovers:     input.Turnovers,
		ThreePointers: input.ThreePointers,
	}
	ComputeDerived(stats)

	if err := s.statsRepo.Create(ctx, nil, stats); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerStatsConflict):
			return nil, ErrStatsAlreadyExist
		case errors.Is(err, repositories.ErrPlayerStatsRefInvalid):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to create player stats: %w", err)
	}
	return stats, nil
}

func (s *playerStatsService) GetByID(ctx context.Context, statsID, currentUserID int) (*models.PlayerStats, error) {
	stats, tournamentID, err := s.getStatsWithTournament(ctx, statsID)
	if err != nil {
		return nil, err
	}
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *playerStatsService) ListByMatch(ctx context.Context, matchID, currentUserID int) ([]models.PlayerStats, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if _, err := s.auth.canView(ctx, match.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.statsRepo.ListByMatch(ctx, matchID)
}

func (s *playerStatsService) ListByPlayer(ctx context.Context, playerID, currentUserID int) ([]models.PlayerStats, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	team, err := s.teamRepo.GetByID(ctx, player.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team %d: %w", player.TeamID, err)
	}
	if _, err := s.auth.canView(ctx, team.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.statsRepo.ListByPlayer(ctx, playerID)
}

func (s *playerStatsService) Update(ctx context.Context, statsID, currentUserID int, input StatLineInput) (*models.PlayerStats, error) {
	stats, tournamentID, err := s.getStatsWithTournament(ctx, statsID)
	if err != nil {
		return nil, err
	}
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	stats.Points = input.Points
	stats.Rebounds = input.Rebounds
	stats.Assists = input.Assists
	stats.Steals = input.Steals
	stats.Blocks = input.Blocks
	stats.Turnovers = input.Turnovers
	stats.ThreePointers = input.ThreePointers
	ComputeDerived(stats)

	if err := s.statsRepo.Update(ctx, nil, stats); err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("failed to update player stats %d: %w", statsID, err)
	}
	return stats, nil
}

func (s *playerStatsService) Delete(ctx context.Context, statsID, currentUserID int) error {
	_, tournamentID, err := s.getStatsWithTournament(ctx, statsID)
	if err != nil {
		return err
	}
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return err
	}

	if err := s.statsRepo.Delete(ctx, nil, statsID); err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return ErrStatsNotFound
		}
		return fmt.Errorf("failed to delete player stats %d: %w", statsID, err)
	}
	return nil
}

func (s *playerStatsService) getStatsWithTournament(ctx context.Context, statsID int) (*models.PlayerStats, int, error) {
	stats, err := s.statsRepo.GetByID(ctx, statsID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerStatsNotFound) {
			return nil, 0, ErrStatsNotFound
		}
		return nil, 0, fmt.Errorf("failed to get player stats %d: %w", statsID, err)
	}
	match, err := s.matchRepo.GetByID(ctx, stats.MatchID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get match %d: %w", stats.MatchID, err)
	}
	return stats, match.TournamentID, nil
}
