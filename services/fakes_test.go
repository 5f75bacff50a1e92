package services

import (
	"context"
	"sort"

	"github.com/hoopstack/hoops-manager/models"
	"github.com/hoopstack/hoops-manager/repositories"
)

// fakeStore is a shared in-memory backing for the fake repositories. All of
// them ignore the SQLExecutor parameter; the services under test only care
// about call sequencing and data effects.
type fakeStore struct {
	users       map[int]*models.User
	tournaments map[int]*models.Tournament
	teams       map[int]*models.Team
	players     map[int]*models.Player
	matches     map[int]*models.Match
	scores      map[int]*models.MatchScore
	stats       map[int]*models.PlayerStats
	grants      map[int]*models.TournamentAccess
	nextID      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int]*models.User),
		tournaments: make(map[int]*models.Tournament),
		teams:       make(map[int]*models.Team),
		players:     make(map[int]*models.Player),
		matches:     make(map[int]*models.Match),
		scores:      make(map[int]*models.MatchScore),
		stats:       make(map[int]*models.PlayerStats),
		grants:      make(map[int]*models.TournamentAccess),
	}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
		if u.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
	}
	user.ID = r.store.id()
	cp := *user
	r.store.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeTournamentRepo struct{ store *fakeStore }

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	t.ID = r.store.id()
	cp := *t
	r.store.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := r.store.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTournamentRepo) ListByCreator(_ context.Context, creatorID int) ([]models.Tournament, error) {
	out := []models.Tournament{}
	for _, id := range sortedIDs(r.store.tournaments) {
		if r.store.tournaments[id].CreatorID == creatorID {
			out = append(out, *r.store.tournaments[id])
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) ListVisibleToUser(_ context.Context, userID int) ([]models.Tournament, error) {
	visible := map[int]bool{}
	for _, t := range r.store.tournaments {
		if t.CreatorID == userID {
			visible[t.ID] = true
		}
	}
	for _, g := range r.store.grants {
		if g.UserID == userID {
			visible[g.TournamentID] = true
		}
	}
	out := []models.Tournament{}
	for _, id := range sortedIDs(r.store.tournaments) {
		if visible[id] {
			out = append(out, *r.store.tournaments[id])
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := r.store.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	cp := *t
	r.store.tournaments[t.ID] = &cp
	return nil
}

func (r *fakeTournamentRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(r.store.tournaments, id)
	return nil
}

type fakeTeamRepo struct{ store *fakeStore }

func (r *fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	team.ID = r.store.id()
	cp := *team
	r.store.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := r.store.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Team, error) {
	out := []models.Team{}
	for _, id := range sortedIDs(r.store.teams) {
		if r.store.teams[id].TournamentID == tournamentID {
			out = append(out, *r.store.teams[id])
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := r.store.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	cp := *team
	r.store.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) UpdateRecord(_ context.Context, _ repositories.SQLExecutor, teamID, wins, losses, points int) error {
	t, ok := r.store.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Wins = wins
	t.Losses = losses
	t.Points = points
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.store.teams, id)
	return nil
}

func (r *fakeTeamRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, t := range r.store.teams {
		if t.TournamentID == tournamentID {
			delete(r.store.teams, id)
		}
	}
	return nil
}

type fakePlayerRepo struct{ store *fakeStore }

func (r *fakePlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, player *models.Player) error {
	player.ID = r.store.id()
	cp := *player
	r.store.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	p, ok := r.store.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	out := []models.Player{}
	for _, id := range sortedIDs(r.store.players) {
		if r.store.players[id].TeamID == teamID {
			out = append(out, *r.store.players[id])
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) Update(_ context.Context, player *models.Player) error {
	if _, ok := r.store.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	cp := *player
	r.store.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.store.players, id)
	return nil
}

func (r *fakePlayerRepo) DeleteByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for id, p := range r.store.players {
		if p.TeamID == teamID {
			delete(r.store.players, id)
		}
	}
	return nil
}

func (r *fakePlayerRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, p := range r.store.players {
		team, ok := r.store.teams[p.TeamID]
		if ok && team.TournamentID == tournamentID {
			delete(r.store.players, id)
		}
	}
	return nil
}

type fakeMatchRepo struct{ store *fakeStore }

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.store.id()
	cp := *match
	cp.Score = nil
	r.store.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	m, ok := r.store.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	out := []models.Match{}
	for _, id := range sortedIDs(r.store.matches) {
		if r.store.matches[id].TournamentID == tournamentID {
			out = append(out, *r.store.matches[id])
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListScoredByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	out := []models.Match{}
	for _, id := range sortedIDs(r.store.matches) {
		m := r.store.matches[id]
		if m.TournamentID != tournamentID {
			continue
		}
		for _, s := range r.store.scores {
			if s.MatchID == m.ID {
				cp := *m
				scoreCp := *s
				cp.Score = &scoreCp
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.store.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	cp := *match
	cp.Score = nil
	r.store.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.store.matches, id)
	return nil
}

func (r *fakeMatchRepo) DeleteByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for id, m := range r.store.matches {
		if m.Team1ID == teamID || m.Team2ID == teamID {
			delete(r.store.matches, id)
		}
	}
	return nil
}

func (r *fakeMatchRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, m := range r.store.matches {
		if m.TournamentID == tournamentID {
			delete(r.store.matches, id)
		}
	}
	return nil
}

type fakeScoreRepo struct{ store *fakeStore }

func (r *fakeScoreRepo) Create(_ context.Context, _ repositories.SQLExecutor, score *models.MatchScore) error {
	for _, s := range r.store.scores {
		if s.MatchID == score.MatchID {
			return repositories.ErrMatchScoreConflict
		}
	}
	score.ID = r.store.id()
	cp := *score
	r.store.scores[score.ID] = &cp
	return nil
}

func (r *fakeScoreRepo) GetByMatchID(_ context.Context, matchID int) (*models.MatchScore, error) {
	for _, s := range r.store.scores {
		if s.MatchID == matchID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repositories.ErrMatchScoreNotFound
}

func (r *fakeScoreRepo) Update(_ context.Context, _ repositories.SQLExecutor, score *models.MatchScore) error {
	for id, s := range r.store.scores {
		if s.MatchID == score.MatchID {
			score.ID = id
			cp := *score
			r.store.scores[id] = &cp
			return nil
		}
	}
	return repositories.ErrMatchScoreNotFound
}

func (r *fakeScoreRepo) DeleteByMatchID(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	for id, s := range r.store.scores {
		if s.MatchID == matchID {
			delete(r.store.scores, id)
		}
	}
	return nil
}

func (r *fakeScoreRepo) DeleteByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for id, s := range r.store.scores {
		m, ok := r.store.matches[s.MatchID]
		if ok && (m.Team1ID == teamID || m.Team2ID == teamID) {
			delete(r.store.scores, id)
		}
	}
	return nil
}

func (r *fakeScoreRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, s := range r.store.scores {
		m, ok := r.store.matches[s.MatchID]
		if ok && m.TournamentID == tournamentID {
			delete(r.store.scores, id)
		}
	}
	return nil
}

type fakeStatsRepo struct{ store *fakeStore }

func (r *fakeStatsRepo) Create(_ context.Context, _ repositories.SQLExecutor, stats *models.PlayerStats) error {
	for _, s := range r.store.stats {
		if s.MatchID == stats.MatchID && s.PlayerID == stats.PlayerID {
			return repositories.ErrPlayerStatsConflict
		}
	}
	stats.ID = r.store.id()
	cp := *stats
	r.store.stats[stats.ID] = &cp
	return nil
}

func (r *fakeStatsRepo) GetByID(_ context.Context, id int) (*models.PlayerStats, error) {
	s, ok := r.store.stats[id]
	if !ok {
		return nil, repositories.ErrPlayerStatsNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStatsRepo) ListByMatch(_ context.Context, matchID int) ([]models.PlayerStats, error) {
	out := []models.PlayerStats{}
	for _, id := range sortedIDs(r.store.stats) {
		if r.store.stats[id].MatchID == matchID {
			out = append(out, *r.store.stats[id])
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) ListByPlayer(_ context.Context, playerID int) ([]models.PlayerStats, error) {
	out := []models.PlayerStats{}
	for _, id := range sortedIDs(r.store.stats) {
		if r.store.stats[id].PlayerID == playerID {
			out = append(out, *r.store.stats[id])
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) Update(_ context.Context, _ repositories.SQLExecutor, stats *models.PlayerStats) error {
	if _, ok := r.store.stats[stats.ID]; !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	cp := *stats
	r.store.stats[stats.ID] = &cp
	return nil
}

func (r *fakeStatsRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.stats[id]; !ok {
		return repositories.ErrPlayerStatsNotFound
	}
	delete(r.store.stats, id)
	return nil
}

func (r *fakeStatsRepo) DeleteByMatchID(_ context.Context, _ repositories.SQLExecutor, matchID int) error {
	for id, s := range r.store.stats {
		if s.MatchID == matchID {
			delete(r.store.stats, id)
		}
	}
	return nil
}

func (r *fakeStatsRepo) DeleteByPlayerID(_ context.Context, _ repositories.SQLExecutor, playerID int) error {
	for id, s := range r.store.stats {
		if s.PlayerID == playerID {
			delete(r.store.stats, id)
		}
	}
	return nil
}

func (r *fakeStatsRepo) DeleteByTeamID(_ context.Context, _ repositories.SQLExecutor, teamID int) error {
	for id, s := range r.store.stats {
		player, okP := r.store.players[s.PlayerID]
		if okP && player.TeamID == teamID {
			delete(r.store.stats, id)
			continue
		}
		m, okM := r.store.matches[s.MatchID]
		if okM && (m.Team1ID == teamID || m.Team2ID == teamID) {
			delete(r.store.stats, id)
		}
	}
	return nil
}

func (r *fakeStatsRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, s := range r.store.stats {
		m, ok := r.store.matches[s.MatchID]
		if ok && m.TournamentID == tournamentID {
			delete(r.store.stats, id)
		}
	}
	return nil
}

type fakeAccessRepo struct{ store *fakeStore }

func (r *fakeAccessRepo) Create(_ context.Context, _ repositories.SQLExecutor, access *models.TournamentAccess) error {
	for _, g := range r.store.grants {
		if g.TournamentID == access.TournamentID && g.UserID == access.UserID {
			return repositories.ErrAccessAlreadyGranted
		}
	}
	access.ID = r.store.id()
	cp := *access
	r.store.grants[access.ID] = &cp
	return nil
}

func (r *fakeAccessRepo) GetByTournamentAndUser(_ context.Context, tournamentID, userID int) (*models.TournamentAccess, error) {
	for _, g := range r.store.grants {
		if g.TournamentID == tournamentID && g.UserID == userID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, repositories.ErrAccessNotFound
}

func (r *fakeAccessRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.TournamentAccess, error) {
	out := []models.TournamentAccess{}
	for _, id := range sortedIDs(r.store.grants) {
		if r.store.grants[id].TournamentID == tournamentID {
			out = append(out, *r.store.grants[id])
		}
	}
	return out, nil
}

func (r *fakeAccessRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.store.grants[id]; !ok {
		return repositories.ErrAccessNotFound
	}
	delete(r.store.grants, id)
	return nil
}

func (r *fakeAccessRepo) DeleteByTournamentID(_ context.Context, _ repositories.SQLExecutor, tournamentID int) error {
	for id, g := range r.store.grants {
		if g.TournamentID == tournamentID {
			delete(r.store.grants, id)
		}
	}
	return nil
}
