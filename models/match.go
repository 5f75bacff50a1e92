package models

import "time"

// Match is a fixture between two distinct teams of the same tournament.
type Match struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Team1ID      int       `json:"team1_id" db:"team1_id"`
	Team2ID      int       `json:"team2_id" db:"team2_id"`
	VenueName    *string   `json:"venue_name,omitempty" db:"venue_name"`
	MatchDate    time.Time `json:"match_date" db:"match_date"`
	CreatorID    int       `json:"creator_id" db:"creator_id"`

	Score *MatchScore `json:"score,omitempty" db:"-"`
}

// MatchScore is the one-to-one final score of a match.
type MatchScore struct {
	ID         int `json:"id" db:"id"`
	MatchID    int `json:"match_id" db:"match_id"`
	Team1Score int `json:"team1_score" db:"team1_score"`
	Team2Score int `json:"team2_score" db:"team2_score"`
}
