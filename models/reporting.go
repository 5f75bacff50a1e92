package models

import "time"

// Chart-ready rows produced by the reporting layer. All of these are computed
// per request from persisted data; nothing here is cached.

type StandingRow struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Points   int    `json:"points"`
}

type PointsDistributionRow struct {
	TeamID          int     `json:"team_id"`
	TeamName        string  `json:"team_name"`
	GamesPlayed     int     `json:"games_played"`
	AvgPointsFor    float64 `json:"avg_points_for"`
	AvgPointsAgainst float64 `json:"avg_points_against"`
}

type PlayerAverageRow struct {
	PlayerID int     `json:"player_id"`
	Name     string  `json:"name"`
	TeamName string  `json:"team_name"`
	Games    int     `json:"games"`
	Average  float64 `json:"average"`
}

type MatchTrendPoint struct {
	MatchID      int       `json:"match_id"`
	MatchDate    time.Time `json:"match_date"`
	WinningScore int       `json:"winning_score"`
	LosingScore  int       `json:"losing_score"`
	AverageScore float64   `json:"average_score"`
}

type DoubleLeaderRow struct {
	PlayerID      int    `json:"player_id"`
	Name          string `json:"name"`
	TeamName      string `json:"team_name"`
	DoubleDoubles int    `json:"double_doubles"`
	TripleDoubles int    `json:"triple_doubles"`
}

type TeamRecordRow struct {
	TeamID           int     `json:"team_id"`
	TeamName         string  `json:"team_name"`
	GamesPlayed      int     `json:"games_played"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	WinPercentage    float64 `json:"win_percentage"`
	AvgPointsFor     float64 `json:"avg_points_for"`
	AvgPointsAgainst float64 `json:"avg_points_against"`
	PointDifferential int    `json:"point_differential"`
}

// Dashboard bundles every chart series for the visualize page in one response.
type Dashboard struct {
	Standings          []StandingRow           `json:"standings"`
	PointsDistribution []PointsDistributionRow `json:"points_distribution"`
	TopScorers         []PlayerAverageRow      `json:"top_scorers"`
	EfficiencyLeaders  []PlayerAverageRow      `json:"efficiency_leaders"`
	MatchTrend         []MatchTrendPoint       `json:"match_trend"`
	DoubleLeaders      []DoubleLeaderRow       `json:"double_leaders"`
	TeamRecords        []TeamRecordRow         `json:"team_records"`
}
