package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// WeeklyEntry is one user's line on a weekly leaderboard
type WeeklyEntry struct {
	Rank          int                `json:"rank"`
	UserID        primitive.ObjectID `json:"userId"`
	DisplayName   string             `json:"displayName"`
	Season        int                `json:"season"`
	Week          int                `json:"week"`
	Record        Record             `json:"record"`
	GamesPlayed   int                `json:"gamesPlayed"`
	WinPercentage float64            `json:"winPercentage"`
	IsPerfectWeek bool               `json:"isPerfectWeek"`
}

// SeasonEntry is one user's line on the season leaderboard
type SeasonEntry struct {
	Rank          int                `json:"rank"`
	UserID        primitive.ObjectID `json:"userId"`
	DisplayName   string             `json:"displayName"`
	Season        int                `json:"season"`
	Record        Record             `json:"record"`
	GamesPlayed   int                `json:"gamesPlayed"`
	WinPercentage float64            `json:"winPercentage"`
	WeeksPlayed   int                `json:"weeksPlayed"`
	PerfectWeeks  int                `json:"perfectWeeks"`
}

// PickDetail is a scored pick joined with its game, for history views
type PickDetail struct {
	GameID        primitive.ObjectID `json:"gameId"`
	Favorite      string             `json:"favorite"`
	Underdog      string             `json:"underdog"`
	Line          float64            `json:"line"`
	Team          string             `json:"team"`
	Result        PickResult         `json:"result"`
	FavoriteScore *int               `json:"favoriteScore,omitempty"`
	UnderdogScore *int               `json:"underdogScore,omitempty"`
	SpreadWinner  string             `json:"spreadWinner,omitempty"`
}

// WeekHistory is one week of a user's season
type WeekHistory struct {
	Week          int          `json:"week"`
	Record        Record       `json:"record"`
	WinPercentage float64      `json:"winPercentage"`
	IsPerfectWeek bool         `json:"isPerfectWeek"`
	Picks         []PickDetail `json:"picks"`
}

// UserSeasonHistory is a user's week-by-week season with totals
type UserSeasonHistory struct {
	UserID        primitive.ObjectID `json:"userId"`
	DisplayName   string             `json:"displayName"`
	Season        int                `json:"season"`
	Weeks         []WeekHistory      `json:"weeks"`
	Totals        Record             `json:"totals"`
	WinPercentage float64            `json:"winPercentage"`
	WeeksPlayed   int                `json:"weeksPlayed"`
	PerfectWeeks  int                `json:"perfectWeeks"`
}

// BowlLeaderboardEntry carries both bowl payouts side by side. Confidence
// points and outright wins are ranked independently and never combined.
type BowlLeaderboardEntry struct {
	ConfidenceRank    int                `json:"confidenceRank"`
	OutrightRank      int                `json:"outrightRank"`
	UserID            primitive.ObjectID `json:"userId"`
	DisplayName       string             `json:"displayName"`
	Season            int                `json:"season"`
	ConfidencePoints  int                `json:"confidencePoints"`
	PointsDecided     int                `json:"pointsDecided"`
	MaxPossiblePoints int                `json:"maxPossiblePoints"`
	PercentComplete   float64            `json:"percentComplete"`
	SpreadRecord      Record             `json:"spreadRecord"`
	OutrightWins      int                `json:"outrightWins"`
	OutrightDecided   int                `json:"outrightDecided"`
}

// BowlPickDetail is a scored bowl pick joined with its game
type BowlPickDetail struct {
	BowlGameID       primitive.ObjectID `json:"bowlGameId"`
	GameNumber       int                `json:"gameNumber"`
	BowlName         string             `json:"bowlName"`
	Favorite         string             `json:"favorite"`
	Underdog         string             `json:"underdog"`
	Line             float64            `json:"line"`
	SpreadPick       string             `json:"spreadPick"`
	ConfidencePoints int                `json:"confidencePoints"`
	OutrightPick     string             `json:"outrightPick"`
	SpreadResult     PickResult         `json:"spreadResult"`
	PointsEarned     int                `json:"pointsEarned"`
	OutrightResult   PickResult         `json:"outrightResult"`
}

// BowlUserHistory is a user's full bowl entry with both scoring tracks
type BowlUserHistory struct {
	UserID            primitive.ObjectID `json:"userId"`
	DisplayName       string             `json:"displayName"`
	Season            int                `json:"season"`
	Picks             []BowlPickDetail   `json:"picks"`
	ConfidencePoints  int                `json:"confidencePoints"`
	PointsDecided     int                `json:"pointsDecided"`
	MaxPossiblePoints int                `json:"maxPossiblePoints"`
	PercentComplete   float64            `json:"percentComplete"`
	SpreadRecord      Record             `json:"spreadRecord"`
	OutrightWins      int                `json:"outrightWins"`
	OutrightDecided   int                `json:"outrightDecided"`
}
