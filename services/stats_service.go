package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

const doubleThreshold = 10

// ComputeDerived overwrites the derived columns of a stats row from its raw
// counters. Every write path must call it before persisting; the columns are
// never computed at query time.
func ComputeDerived(s *models.PlayerStats) {
	s.Efficiency = s.Points + s.Rebounds + s.Assists + s.Steals + s.Blocks - s.Turnovers

	categories := 0
	for _, v := range []int{s.Points, s.Rebounds, s.Assists, s.Steals, s.Blocks} {
		if v >= doubleThreshold {
			categories++
		}
	}
	s.DoubleDouble = categories >= 2
	s.TripleDouble = categories >= 3
}

// StatsAggregator recomputes the denormalized team records of a tournament.
type StatsAggregator interface {
	// RecomputeTeamStats resets every team of the tournament to 0/0/0 and
	// replays all scored matches: the higher score takes a win and 2 points,
	// the lower a loss, a draw gives each side 1 point. Idempotent; O(matches
	// in tournament) per call. Callers mutating matches or scores must invoke
	// it on the same executor (transaction) as the triggering write.
	RecomputeTeamStats(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error
}

type statsAggregator struct {
	teamRepo  repositories.TeamRepository
	matchRepo repositories.MatchRepository
}

func NewStatsAggregator(
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
) StatsAggregator {
	return &statsAggregator{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
	}
}

type teamRecord struct {
	wins   int
	losses int
	points int
}

func (s *statsAggregator) RecomputeTeamStats(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	teams, err := s.teamRepo.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}

	records := make(map[int]*teamRecord, len(teams))
	for _, team := range teams {
		records[team.ID] = &teamRecord{}
	}

	matches, err := s.matchRepo.ListScoredByTournament(ctx, exec, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list scored matches for tournament %d: %w", tournamentID, err)
	}

	for _, match := range matches {
		r1, ok1 := records[match.Team1ID]
		r2, ok2 := records[match.Team2ID]
		if !ok1 || !ok2 {
			// A match referencing a team outside the tournament; skip rather
			// than corrupt another tournament's records.
			continue
		}
		score := match.Score
		switch {
		case score.Team1Score > score.Team2Score:
			r1.wins++
			r1.points += 2
			r2.losses++
		case score.Team2Score > score.Team1Score:
			r2.wins++
			r2.points += 2
			r1.losses++
		default:
			r1.points++
			r2.points++
		}
	}

	for _, team := range teams {
		rec := records[team.ID]
		if err := s.teamRepo.UpdateRecord(ctx, exec, team.ID, rec.wins, rec.losses, rec.points); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to update record for team %d: %w", team.ID, err)
		}
	}
	return nil
}
