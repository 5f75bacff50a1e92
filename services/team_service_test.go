package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hoopstack/hoops-manager/models"
)

func seedPlayer(store *fakeStore, teamID int, name string) int {
	id := store.id()
	store.players[id] = &models.Player{
		ID: id, Name: name, Position: models.PositionPointGuard, TeamID: teamID, CreatorID: 1,
	}
	return id
}

func seedStats(store *fakeStore, matchID, playerID, points int) int {
	id := store.id()
	store.stats[id] = &models.PlayerStats{ID: id, MatchID: matchID, PlayerID: playerID, Points: points}
	return id
}

func newTeamFixture(store *fakeStore) TeamService {
	teamRepo := &fakeTeamRepo{store}
	matchRepo := &fakeMatchRepo{store}
	return NewTeamService(
		nil,
		teamRepo,
		&fakePlayerRepo{store},
		matchRepo,
		&fakeScoreRepo{store},
		&fakeStatsRepo{store},
		&fakeTournamentRepo{store},
		&fakeAccessRepo{store},
		NewStatsAggregator(teamRepo, matchRepo),
	)
}

func TestTeamDeleteCascades(t *testing.T) {
	store := newFakeStore()
	svc := newTeamFixture(store)
	ctx := context.Background()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)
	t1 := seedTeam(store, tournamentID, "Hawks")
	t2 := seedTeam(store, tournamentID, "Bulls")
	t3 := seedTeam(store, tournamentID, "Celtics")

	seedScoredMatch(store, tournamentID, t1, t2, 80, 70)
	seedScoredMatch(store, tournamentID, t2, t3, 90, 85)

	p1 := seedPlayer(store, t1, "Leaving Player")
	p2 := seedPlayer(store, t2, "Staying Player")
	var m1 int
	for id, m := range store.matches {
		if m.Team1ID == t1 {
			m1 = id
		}
	}
	seedStats(store, m1, p1, 20)
	seedStats(store, m1, p2, 15)

	if err := svc.Delete(ctx, t1, owner); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := store.teams[t1]; ok {
		t.Error("deleted team still present")
	}
	if _, ok := store.players[p1]; ok {
		t.Error("player of the deleted team still present")
	}
	if _, ok := store.players[p2]; !ok {
		t.Error("player of a surviving team was deleted")
	}
	for _, m := range store.matches {
		if m.Team1ID == t1 || m.Team2ID == t1 {
			t.Error("match involving the deleted team still present")
		}
	}
	for _, s := range store.scores {
		if _, ok := store.matches[s.MatchID]; !ok {
			t.Error("orphaned score left behind")
		}
	}
	// Both stat lines of the removed match are gone, including the surviving
	// player's line.
	if len(store.stats) != 0 {
		t.Errorf("stats rows = %d, want 0", len(store.stats))
	}

	// Records were rebuilt from the one remaining match (t2 90, t3 85).
	if got := store.teams[t2]; got.Wins != 1 || got.Losses != 0 || got.Points != 2 {
		t.Errorf("team 2 record = %d/%d/%d, want 1/0/2", got.Wins, got.Losses, got.Points)
	}
	if got := store.teams[t3]; got.Wins != 0 || got.Losses != 1 || got.Points != 0 {
		t.Errorf("team 3 record = %d/%d/%d, want 0/1/0", got.Wins, got.Losses, got.Points)
	}
}

func TestTeamDeleteRequiresOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newTeamFixture(store)

	owner := seedUser(store, "owner")
	outsider := seedUser(store, "outsider")
	tournamentID := seedTournament(store, owner)
	teamID := seedTeam(store, tournamentID, "Hawks")

	if err := svc.Delete(context.Background(), teamID, outsider); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("Delete by non-creator error = %v, want ErrForbiddenOperation", err)
	}
	if _, ok := store.teams[teamID]; !ok {
		t.Error("team was deleted despite the ownership failure")
	}
}

func TestTeamCreateDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTeamFixture(store)

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)

	team, err := svc.Create(context.Background(), tournamentID, owner, TeamInput{Name: "  Hawks  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if team.Name != "Hawks" {
		t.Errorf("name = %q, want trimmed %q", team.Name, "Hawks")
	}
	if team.LogoShapeType != 1 || team.PrimaryColor != "#000000" || team.SecondaryColor != "#FFFFFF" {
		t.Errorf("defaults = %d/%s/%s, want 1/#000000/#FFFFFF",
			team.LogoShapeType, team.PrimaryColor, team.SecondaryColor)
	}

	if _, err := svc.Create(context.Background(), tournamentID, owner, TeamInput{Name: "   "}); !errors.Is(err, ErrTeamNameRequired) {
		t.Fatalf("Create with blank name error = %v, want ErrTeamNameRequired", err)
	}
}
