package services

import (
	"context"
	"fmt"
	"sort"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BowlPickScore is the outcome of one bowl pick on both tracks
type BowlPickScore struct {
	Spread       models.PickResult
	PointsEarned int
	Outright     models.PickResult
}

// ScoreBowlPick grades a bowl pick. Confidence points are earned only on a
// spread win; a push or loss earns nothing whatever the confidence. The
// outright pick is graded on its own and a tied game is an outright push.
func ScoreBowlPick(pick *models.BowlPick, game *models.BowlGame) BowlPickScore {
	score := BowlPickScore{
		Spread:   models.PickResultPending,
		Outright: models.PickResultPending,
	}
	if game == nil || !game.HasResult() {
		return score
	}

	score.Spread = gradeSpread(pick.SpreadPick, game.Result.SpreadWinner, game.Result.IsPush)
	if score.Spread == models.PickResultWin {
		score.PointsEarned = pick.ConfidencePoints
	}

	switch game.Result.OutrightWinner {
	case "":
		score.Outright = models.PickResultPush
	case pick.OutrightPick:
		score.Outright = models.PickResultWin
	default:
		score.Outright = models.PickResultLoss
	}
	return score
}

// BowlLeaderboardService computes the two bowl payouts on demand
type BowlLeaderboardService struct {
	bowlGames BowlGameRepository
	bowlPicks BowlPickRepository
	users     UserRepository
}

// NewBowlLeaderboardService creates a new bowl leaderboard service
func NewBowlLeaderboardService(bowlGames BowlGameRepository, bowlPicks BowlPickRepository, users UserRepository) *BowlLeaderboardService {
	return &BowlLeaderboardService{
		bowlGames: bowlGames,
		bowlPicks: bowlPicks,
		users:     users,
	}
}

func indexBowlGames(games []*models.BowlGame) map[primitive.ObjectID]*models.BowlGame {
	byID := make(map[primitive.ObjectID]*models.BowlGame, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	return byID
}

// addBowlPick folds one scored pick into an entry
func addBowlPick(entry *models.BowlLeaderboardEntry, pick *models.BowlPick, game *models.BowlGame) {
	score := ScoreBowlPick(pick, game)
	entry.MaxPossiblePoints += pick.ConfidencePoints
	entry.SpreadRecord.Add(score.Spread)
	if score.Spread.IsDecided() {
		entry.PointsDecided += pick.ConfidencePoints
	}
	entry.ConfidencePoints += score.PointsEarned
	if score.Outright.IsDecided() {
		entry.OutrightDecided++
	}
	if score.Outright == models.PickResultWin {
		entry.OutrightWins++
	}
}

// percentComplete is the share of an entry's confidence points riding on
// decided games, 0 to 100
func percentComplete(decided, possible int) float64 {
	if possible == 0 {
		return 0
	}
	return float64(decided) / float64(possible) * 100
}

func (s *BowlLeaderboardService) entries(ctx context.Context, season int) ([]models.BowlLeaderboardEntry, error) {
	games, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl games: %w", err)
	}
	picks, err := s.bowlPicks.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl picks: %w", err)
	}
	gameMap := indexBowlGames(games)

	byUser := make(map[primitive.ObjectID]*models.BowlLeaderboardEntry)
	userIDs := []primitive.ObjectID{}
	for _, pick := range picks {
		entry, ok := byUser[pick.UserID]
		if !ok {
			entry = &models.BowlLeaderboardEntry{UserID: pick.UserID, Season: season}
			byUser[pick.UserID] = entry
			userIDs = append(userIDs, pick.UserID)
		}
		addBowlPick(entry, pick, gameMap[pick.BowlGameID])
	}

	names, err := lookupNames(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.BowlLeaderboardEntry, 0, len(byUser))
	for _, id := range userIDs {
		entry := byUser[id]
		entry.DisplayName = names[id]
		entry.PercentComplete = percentComplete(entry.PointsDecided, entry.MaxPossiblePoints)
		entries = append(entries, *entry)
	}

	rankOutright(entries)
	rankConfidence(entries)
	return entries, nil
}

// rankConfidence sorts by confidence points and assigns ConfidenceRank
func rankConfidence(entries []models.BowlLeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ConfidencePoints != b.ConfidencePoints {
			return a.ConfidencePoints > b.ConfidencePoints
		}
		return a.DisplayName < b.DisplayName
	})
	for i := range entries {
		if i > 0 && entries[i].ConfidencePoints == entries[i-1].ConfidencePoints {
			entries[i].ConfidenceRank = entries[i-1].ConfidenceRank
		} else {
			entries[i].ConfidenceRank = i + 1
		}
	}
}

// rankOutright sorts by outright wins and assigns OutrightRank
func rankOutright(entries []models.BowlLeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.OutrightWins != b.OutrightWins {
			return a.OutrightWins > b.OutrightWins
		}
		return a.DisplayName < b.DisplayName
	})
	for i := range entries {
		if i > 0 && entries[i].OutrightWins == entries[i-1].OutrightWins {
			entries[i].OutrightRank = entries[i-1].OutrightRank
		} else {
			entries[i].OutrightRank = i + 1
		}
	}
}

// GetBowlLeaderboard returns the confidence-points standings. Each entry
// also carries its outright rank, but the two are never combined.
func (s *BowlLeaderboardService) GetBowlLeaderboard(ctx context.Context, season int) ([]models.BowlLeaderboardEntry, error) {
	return s.entries(ctx, season)
}

// GetBowlOutrightLeaderboard returns the same entries ordered for the
// outright-winner payout
func (s *BowlLeaderboardService) GetBowlOutrightLeaderboard(ctx context.Context, season int) ([]models.BowlLeaderboardEntry, error) {
	entries, err := s.entries(ctx, season)
	if err != nil {
		return nil, err
	}
	rankOutright(entries)
	return entries, nil
}

// GetUserBowlHistory returns one user's graded bowl entry in game order
func (s *BowlLeaderboardService) GetUserBowlHistory(ctx context.Context, userID primitive.ObjectID, season int) (*models.BowlUserHistory, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	games, err := s.bowlGames.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get bowl games: %w", err)
	}
	picks, err := s.bowlPicks.FindByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bowl picks: %w", err)
	}
	gameMap := indexBowlGames(games)

	history := &models.BowlUserHistory{
		UserID:      userID,
		DisplayName: user.Name(),
		Season:      season,
		Picks:       make([]models.BowlPickDetail, 0, len(picks)),
	}
	for _, pick := range picks {
		game := gameMap[pick.BowlGameID]
		score := ScoreBowlPick(pick, game)

		detail := models.BowlPickDetail{
			BowlGameID:       pick.BowlGameID,
			SpreadPick:       pick.SpreadPick,
			ConfidencePoints: pick.ConfidencePoints,
			OutrightPick:     pick.OutrightPick,
			SpreadResult:     score.Spread,
			PointsEarned:     score.PointsEarned,
			OutrightResult:   score.Outright,
		}
		if game != nil {
			detail.GameNumber = game.GameNumber
			detail.BowlName = game.BowlName
			detail.Favorite = game.Favorite
			detail.Underdog = game.Underdog
			detail.Line = game.Line
		}
		history.Picks = append(history.Picks, detail)

		history.MaxPossiblePoints += pick.ConfidencePoints
		history.ConfidencePoints += score.PointsEarned
		history.SpreadRecord.Add(score.Spread)
		if score.Spread.IsDecided() {
			history.PointsDecided += pick.ConfidencePoints
		}
		if score.Outright.IsDecided() {
			history.OutrightDecided++
		}
		if score.Outright == models.PickResultWin {
			history.OutrightWins++
		}
	}
	history.PercentComplete = percentComplete(history.PointsDecided, history.MaxPossiblePoints)
	sort.Slice(history.Picks, func(i, j int) bool { return history.Picks[i].GameNumber < history.Picks[j].GameNumber })

	return history, nil
}
