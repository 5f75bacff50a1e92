package models

// PlayerPosition is one of the five standard basketball positions.
type PlayerPosition string

const (
	PositionPointGuard    PlayerPosition = "PG"
	PositionShootingGuard PlayerPosition = "SG"
	PositionSmallForward  PlayerPosition = "SF"
	PositionPowerForward  PlayerPosition = "PF"
	PositionCenter        PlayerPosition = "C"
)

func (p PlayerPosition) Valid() bool {
	switch p {
	case PositionPointGuard, PositionShootingGuard, PositionSmallForward, PositionPowerForward, PositionCenter:
		return true
	}
	return false
}

type Player struct {
	ID           int            `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Height       *int           `json:"height,omitempty" db:"height"` // cm
	Weight       *int           `json:"weight,omitempty" db:"weight"` // kg
	Position     PlayerPosition `json:"position" db:"position"`
	JerseyNumber int            `json:"jersey_number" db:"jersey_number"`
	TeamID       int            `json:"team_id" db:"team_id"`
	CreatorID    int            `json:"creator_id" db:"creator_id"`
}
