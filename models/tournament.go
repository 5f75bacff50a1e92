package models

import "time"

// Tournament is the root entity: teams, matches and access grants hang off it.
// Deleting one cascades through the whole subtree at the service layer.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Year        int       `json:"year" db:"year"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	CreatorID   int       `json:"creator_id" db:"creator_id"`

	// Optional linked data, populated by the service layer.
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
	Creator *User   `json:"creator,omitempty" db:"-"`
}

// TournamentAccess grants a non-creator visibility into a tournament.
// At most one grant per (tournament, user) pair, enforced by a unique
// constraint in the schema.
type TournamentAccess struct {
	ID            int       `json:"id" db:"id"`
	TournamentID  int       `json:"tournament_id" db:"tournament_id"`
	UserID        int       `json:"user_id" db:"user_id"`
	AccessGranted time.Time `json:"access_granted" db:"access_granted"`

	User *User `json:"user,omitempty" db:"-"`
}
