package models

// PlayerStats is one box-score row per (match, player). Efficiency,
// DoubleDouble and TripleDouble are derived from the raw counters on every
// write; readers must never recompute them at query time.
type PlayerStats struct {
	ID            int `json:"id" db:"id"`
	MatchID       int `json:"match_id" db:"match_id"`
	PlayerID      int `json:"player_id" db:"player_id"`
	Points        int `json:"points" db:"points"`
	Rebounds      int `json:"rebounds" db:"rebounds"`
	Assists       int `json:"assists" db:"assists"`
	Steals        int `json:"steals" db:"steals"`
	Blocks        int `json:"blocks" db:"blocks"`
	Turnovers     int `json:"turnovers" db:"turnovers"`
	ThreePointers int `json:"three_pointers" db:"three_pointers"`

	Efficiency   int  `json:"efficiency" db:"efficiency"`
	DoubleDouble bool `json:"double_double" db:"double_double"`
	TripleDouble bool `json:"triple_double" db:"triple_double"`
}
