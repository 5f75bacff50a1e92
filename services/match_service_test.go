package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newMatchFixture(store *fakeStore) MatchService {
	teamRepo := &fakeTeamRepo{store}
	matchRepo := &fakeMatchRepo{store}
	return NewMatchService(
		nil,
		matchRepo,
		&fakeScoreRepo{store},
		&fakeStatsRepo{store},
		teamRepo,
		&fakeTournamentRepo{store},
		&fakeAccessRepo{store},
		NewStatsAggregator(teamRepo, matchRepo),
	)
}

func TestMatchCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc := newMatchFixture(store)
	ctx := context.Background()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)
	otherTournament := seedTournament(store, owner)
	t1 := seedTeam(store, tournamentID, "Hawks")
	t2 := seedTeam(store, tournamentID, "Bulls")
	foreign := seedTeam(store, otherTournament, "Celtics")
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.Create(ctx, tournamentID, owner, MatchInput{Team1ID: t1, Team2ID: t1, MatchDate: date}); !errors.Is(err, ErrMatchTeamsIdentical) {
		t.Fatalf("identical teams error = %v, want ErrMatchTeamsIdentical", err)
	}
	if _, err := svc.Create(ctx, tournamentID, owner, MatchInput{Team1ID: t1, Team2ID: foreign, MatchDate: date}); !errors.Is(err, ErrMatchTeamsWrongTourney) {
		t.Fatalf("foreign team error = %v, want ErrMatchTeamsWrongTourney", err)
	}
	if _, err := svc.Create(ctx, tournamentID, owner, MatchInput{Team1ID: t1, Team2ID: 9999, MatchDate: date}); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("unknown team error = %v, want ErrTeamNotFound", err)
	}

	match, err := svc.Create(ctx, tournamentID, owner, MatchInput{Team1ID: t1, Team2ID: t2, MatchDate: date})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if match.TournamentID != tournamentID || match.Team1ID != t1 || match.Team2ID != t2 {
		t.Errorf("match = %+v, want tournament %d teams %d/%d", match, tournamentID, t1, t2)
	}
}

func TestSetScoreUpsert(t *testing.T) {
	store := newFakeStore()
	svc := newMatchFixture(store)
	ctx := context.Background()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)
	t1 := seedTeam(store, tournamentID, "Hawks")
	t2 := seedTeam(store, tournamentID, "Bulls")

	match, err := svc.Create(ctx, tournamentID, owner, MatchInput{
		Team1ID: t1, Team2ID: t2, MatchDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.SetScore(ctx, match.ID, owner, ScoreInput{Team1Score: -1, Team2Score: 80}); !errors.Is(err, ErrNegativeScore) {
		t.Fatalf("negative score error = %v, want ErrNegativeScore", err)
	}

	if _, err := svc.SetScore(ctx, match.ID, owner, ScoreInput{Team1Score: 87, Team2Score: 81}); err != nil {
		t.Fatalf("first SetScore: %v", err)
	}
	if got := store.teams[t1]; got.Wins != 1 || got.Points != 2 {
		t.Errorf("team 1 record after first score = %d wins %d points, want 1/2", got.Wins, got.Points)
	}

	// Second call overwrites instead of conflicting and flips the result.
	if _, err := svc.SetScore(ctx, match.ID, owner, ScoreInput{Team1Score: 70, Team2Score: 90}); err != nil {
		t.Fatalf("second SetScore: %v", err)
	}
	if len(store.scores) != 1 {
		t.Fatalf("score rows = %d, want 1", len(store.scores))
	}
	for _, s := range store.scores {
		if s.Team1Score != 70 || s.Team2Score != 90 {
			t.Errorf("score = %d-%d, want 70-90", s.Team1Score, s.Team2Score)
		}
	}
	if got := store.teams[t1]; got.Wins != 0 || got.Losses != 1 || got.Points != 0 {
		t.Errorf("team 1 record after overwrite = %d/%d/%d, want 0/1/0", got.Wins, got.Losses, got.Points)
	}
	if got := store.teams[t2]; got.Wins != 1 || got.Losses != 0 || got.Points != 2 {
		t.Errorf("team 2 record after overwrite = %d/%d/%d, want 1/0/2", got.Wins, got.Losses, got.Points)
	}
}

func TestDeleteScoreRecomputes(t *testing.T) {
	store := newFakeStore()
	svc := newMatchFixture(store)
	ctx := context.Background()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)
	t1 := seedTeam(store, tournamentID, "Hawks")
	t2 := seedTeam(store, tournamentID, "Bulls")
	seedScoredMatch(store, tournamentID, t1, t2, 87, 81)
	var matchID int
	for id := range store.matches {
		matchID = id
	}

	if err := svc.DeleteScore(ctx, matchID, owner); err != nil {
		t.Fatalf("DeleteScore: %v", err)
	}
	if len(store.scores) != 0 {
		t.Errorf("score rows = %d, want 0", len(store.scores))
	}
	// An unscored match no longer counts towards any record.
	if got := store.teams[t1]; got.Wins != 0 || got.Losses != 0 || got.Points != 0 {
		t.Errorf("team 1 record = %d/%d/%d, want 0/0/0", got.Wins, got.Losses, got.Points)
	}

	if err := svc.DeleteScore(ctx, matchID, owner); !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("second DeleteScore error = %v, want ErrScoreNotFound", err)
	}
}

func TestMatchDeleteCascades(t *testing.T) {
	store := newFakeStore()
	svc := newMatchFixture(store)
	ctx := context.Background()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)
	t1 := seedTeam(store, tournamentID, "Hawks")
	t2 := seedTeam(store, tournamentID, "Bulls")
	seedScoredMatch(store, tournamentID, t1, t2, 87, 81)
	var matchID int
	for id := range store.matches {
		matchID = id
	}
	p1 := seedPlayer(store, t1, "John Doe")
	seedStats(store, matchID, p1, 20)

	if err := svc.Delete(ctx, matchID, owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.matches) != 0 || len(store.scores) != 0 || len(store.stats) != 0 {
		t.Errorf("match subtree left behind: %d matches %d scores %d stats",
			len(store.matches), len(store.scores), len(store.stats))
	}
	if _, ok := store.players[p1]; !ok {
		t.Error("player was deleted together with the match")
	}
	if got := store.teams[t1]; got.Wins != 0 || got.Points != 0 {
		t.Errorf("team 1 record = %d wins %d points, want 0/0", got.Wins, got.Points)
	}
}
