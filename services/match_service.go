package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

type MatchService interface {
	Create(ctx context.Context, tournamentID, currentUserID int, input MatchInput) (*models.Match, error)
	GetByID(ctx context.Context, matchID, currentUserID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID, currentUserID int) ([]models.Match, error)
	Update(ctx context.Context, matchID, currentUserID int, input MatchInput) (*models.Match, error)
	Delete(ctx context.Context, matchID, currentUserID int) error

	SetScore(ctx context.Context, matchID, currentUserID int, input ScoreInput) (*models.MatchScore, error)
	DeleteScore(ctx context.Context, matchID, currentUserID int) error
}

type MatchInput struct {
	Team1ID   int       `json:"team1_id"`
	Team2ID   int       `json:"team2_id"`
	VenueName *string   `json:"venue_name"`
	MatchDate time.Time `json:"match_date"`
}

type ScoreInput struct {
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
}

type matchService struct {
	db         *sql.DB
	matchRepo  repositories.MatchRepository
	scoreRepo  repositories.MatchScoreRepository
	statsRepo  repositories.PlayerStatsRepository
	teamRepo   repositories.TeamRepository
	aggregator StatsAggregator
	auth       tournamentAuthorizer
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	scoreRepo repositories.MatchScoreRepository,
	statsRepo repositories.PlayerStatsRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	accessRepo repositories.AccessRepository,
	aggregator StatsAggregator,
) MatchService {
	return &matchService{
		db:         db,
		matchRepo:  matchRepo,
		scoreRepo:  scoreRepo,
		statsRepo:  statsRepo,
		teamRepo:   teamRepo,
		aggregator: aggregator,
		auth:       tournamentAuthorizer{tournamentRepo: tournamentRepo, accessRepo: accessRepo},
	}
}

// validateMatchTeams checks both teams exist, are distinct, and belong to the
// match tournament.
func (s *matchService) validateMatchTeams(ctx context.Context, tournamentID, team1ID, team2ID int) error {
	if team1ID == team2ID {
		return ErrMatchTeamsIdentical
	}
	for _, teamID := range []int{team1ID, team2ID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to get team %d: %w", teamID, err)
		}
		if team.TournamentID != tournamentID {
			return ErrMatchTeamsWrongTourney
		}
	}
	return nil
}

func (s *matchService) Create(ctx context.Context, tournamentID, currentUserID int, input MatchInput) (*models.Match, error) {
	if _, err := s.auth.mustOwn(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	if err := s.validateMatchTeams(ctx, tournamentID, input.Team1ID, input.Team2ID); err != nil {
		return nil, err
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		VenueName:    input.VenueName,
		MatchDate:    input.MatchDate,
		CreatorID:    currentUserID,
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
	return s.getVisibleMatch(ctx, matchID, currentUserID)
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID, currentUserID int) ([]models.Match, error) {
	if _, err := s.auth.canView(ctx, tournamentID, currentUserID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID)
}

func (s *matchService) Update(ctx context.Context, matchID, currentUserID int, input MatchInput) (*models.Match, error) {
	match, err := s.getOwnedMatch(ctx, matchID, currentUserID)
	if err != nil {
		return nil, err
	}
	if err := s.validateMatchTeams(ctx, match.TournamentID, input.Team1ID, input.Team2ID); err != nil {
		return nil, err
	}

	match.Team1ID = input.Team1ID
	match.Team2ID = input.Team2ID
	match.VenueName = input.VenueName
	match.MatchDate = input.MatchDate

	// Re-pointing a scored match at different teams shifts the result, so the
	// update and the recompute share one transaction.
	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.matchRepo.Update(ctx, tx, match); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to update match %d: %w", matchID, err)
		}
		return s.aggregator.RecomputeTeamStats(ctx, tx, match.TournamentID)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, matchID, currentUserID int) error {
	match, err := s.getOwnedMatch(ctx, matchID, currentUserID)
	if err != nil {
		return err
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.statsRepo.DeleteByMatchID(ctx, tx, matchID); err != nil {
			return fmt.Errorf("failed to delete player stats: %w", err)
		}
		if err := s.scoreRepo.DeleteByMatchID(ctx, tx, matchID); err != nil {
			return fmt.Errorf("failed to delete match score: %w", err)
		}
		if err := s.matchRepo.Delete(ctx, tx, matchID); err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to delete match: %w", err)
		}
		return s.aggregator.RecomputeTeamStats(ctx, tx, match.TournamentID)
	})
}

// SetScore creates or overwrites the score of a match and recomputes team
// records in the same transaction.
func (s *matchService) SetScore(ctx context.Context, matchID, currentUserID int, input ScoreInput) (*models.MatchScore, error) {
	match, err := s.getOwnedMatch(ctx, matchID, currentUserID)
	if err != nil {
		return nil, err
	}
	if input.Team1Score < 0 || input.Team2Score < 0 {
		return nil, ErrNegativeScore
	}

	score := &models.MatchScore{
		MatchID:    matchID,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.scoreRepo.Create(ctx, tx, score); err != nil {
			if !errors.Is(err, repositories.ErrMatchScoreConflict) {
				return fmt.Errorf("failed to create match score: %w", err)
			}
			if err := s.scoreRepo.Update(ctx, tx, score); err != nil {
				return fmt.Errorf("failed to update match score: %w", err)
			}
		}
		return s.aggregator.RecomputeTeamStats(ctx, tx, match.TournamentID)
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

func (s *matchService) DeleteScore(ctx context.Context, matchID, currentUserID int) error {
	match, err := s.getOwnedMatch(ctx, matchID, currentUserID)
	if err != nil {
		return err
	}
	if _, err := s.scoreRepo.GetByMatchID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchScoreNotFound) {
			return ErrScoreNotFound
		}
		return fmt.Errorf("failed to get score for match %d: %w", matchID, err)
	}

	return runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.scoreRepo.DeleteByMatchID(ctx, tx, matchID); err != nil {
			return fmt.Errorf("failed to delete match score: %w", err)
		}
		return s.aggregator.RecomputeTeamStats(ctx, tx, match.TournamentID)
	})
}

func (s *matchService) getVisibleMatch(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
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
	return match, nil
}

func (s *matchService) getOwnedMatch(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}
	if _, err := s.auth.mustOwn(ctx, match.TournamentID, currentUserID); err != nil {
		return nil, err
	}
	return match, nil
}
