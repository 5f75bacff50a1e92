package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hoopstack/hoops-manager/models"
)

func seedUser(store *fakeStore, username string) int {
	id := store.id()
	store.users[id] = &models.User{ID: id, Username: username, Email: username + "@example.com"}
	return id
}

func seedTournament(store *fakeStore, creatorID int) int {
	id := store.id()
	store.tournaments[id] = &models.Tournament{
		ID: id, Name: "City Cup", Year: 2024,
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		CreatorID: creatorID,
	}
	return id
}

func newAccessFixture() (*fakeStore, AccessService) {
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAccessService(&fakeAccessRepo{store}, &fakeUserRepo{store}, &fakeTournamentRepo{store}, logger)
	return store, svc
}

func TestGrantAccess(t *testing.T) {
	store, svc := newAccessFixture()
	ctx := context.Background()

	owner := seedUser(store, "owner")
	grantee := seedUser(store, "scout")
	tournamentID := seedTournament(store, owner)

	access, err := svc.Grant(ctx, tournamentID, owner, "scout")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if access.UserID != grantee || access.TournamentID != tournamentID {
		t.Errorf("grant = user %d tournament %d, want %d/%d", access.UserID, access.TournamentID, grantee, tournamentID)
	}
	if access.User == nil || access.User.Username != "scout" {
		t.Error("grant response does not carry the grantee user")
	}

	visible, err := (&fakeTournamentRepo{store}).ListVisibleToUser(ctx, grantee)
	if err != nil {
		t.Fatalf("ListVisibleToUser: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != tournamentID {
		t.Errorf("grantee sees %d tournaments, want exactly the granted one", len(visible))
	}
}

func TestGrantAccessDuplicate(t *testing.T) {
	store, svc := newAccessFixture()
	ctx := context.Background()

	owner := seedUser(store, "owner")
	grantee := seedUser(store, "scout")
	tournamentID := seedTournament(store, owner)

	if _, err := svc.Grant(ctx, tournamentID, owner, "scout"); err != nil {
		t.Fatalf("first Grant: %v", err)
	}
	if _, err := svc.Grant(ctx, tournamentID, owner, "scout"); !errors.Is(err, ErrAlreadyHasAccess) {
		t.Fatalf("second Grant error = %v, want ErrAlreadyHasAccess", err)
	}

	if len(store.grants) != 1 {
		t.Errorf("grant rows = %d, want 1", len(store.grants))
	}
	visible, _ := (&fakeTournamentRepo{store}).ListVisibleToUser(ctx, grantee)
	if len(visible) != 1 {
		t.Errorf("grantee sees %d tournaments, want 1", len(visible))
	}
}

func TestGrantAccessToCreator(t *testing.T) {
	store, svc := newAccessFixture()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)

	_, err := svc.Grant(context.Background(), tournamentID, owner, "owner")
	if !errors.Is(err, ErrAlreadyHasAccess) {
		t.Fatalf("Grant to creator error = %v, want ErrAlreadyHasAccess", err)
	}
	if len(store.grants) != 0 {
		t.Errorf("grant rows = %d, want 0", len(store.grants))
	}
}

func TestGrantAccessRequiresOwnership(t *testing.T) {
	store, svc := newAccessFixture()

	owner := seedUser(store, "owner")
	outsider := seedUser(store, "outsider")
	seedUser(store, "scout")
	tournamentID := seedTournament(store, owner)

	if _, err := svc.Grant(context.Background(), tournamentID, outsider, "scout"); !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("Grant by non-creator error = %v, want ErrForbiddenOperation", err)
	}
}

func TestGrantAccessUnknownUser(t *testing.T) {
	store, svc := newAccessFixture()

	owner := seedUser(store, "owner")
	tournamentID := seedTournament(store, owner)

	if _, err := svc.Grant(context.Background(), tournamentID, owner, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Grant to unknown user error = %v, want ErrUserNotFound", err)
	}
}

func TestRevokeAccess(t *testing.T) {
	store, svc := newAccessFixture()
	ctx := context.Background()

	owner := seedUser(store, "owner")
	grantee := seedUser(store, "scout")
	tournamentID := seedTournament(store, owner)

	if _, err := svc.Grant(ctx, tournamentID, owner, "scout"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if err := svc.Revoke(ctx, tournamentID, owner, grantee); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	grants, err := svc.ListGrants(ctx, tournamentID, owner)
	if err != nil {
		t.Fatalf("ListGrants: %v", err)
	}
	if len(grants) != 0 {
		t.Errorf("grants after revoke = %d, want 0", len(grants))
	}

	if err := svc.Revoke(ctx, tournamentID, owner, grantee); !errors.Is(err, ErrAccessNotFound) {
		t.Fatalf("second Revoke error = %v, want ErrAccessNotFound", err)
	}
}
