package models

// Team belongs to exactly one tournament. Wins, losses and points are
// denormalized: they are overwritten by a full recompute whenever any match
// result in the tournament changes, never adjusted incrementally.
type Team struct {
	ID             int    `json:"id" db:"id"`
	Name           string `json:"name" db:"name"`
	CreatedYear    *int   `json:"created_year,omitempty" db:"created_year"`
	LogoShapeType  int    `json:"logo_shape_type" db:"logo_shape_type"`
	PrimaryColor   string `json:"primary_color" db:"primary_color"`
	SecondaryColor string `json:"secondary_color" db:"secondary_color"`
	Wins           int    `json:"wins" db:"wins"`
	Losses         int    `json:"losses" db:"losses"`
	Points         int    `json:"points" db:"points"`
	CreatorID      int    `json:"creator_id" db:"creator_id"`
	TournamentID   int    `json:"tournament_id" db:"tournament_id"`

	Players []Player `json:"players,omitempty" db:"-"`
}
