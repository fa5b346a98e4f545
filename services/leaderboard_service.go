package services

import (
	"context"
	"fmt"
	"sort"

	"cfb-pickem-go/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScorePick grades a pick against its game. Games without a result leave
// the pick pending; a push is a push whichever team was picked.
func ScorePick(pick *models.Pick, game *models.Game) models.PickResult {
	if game == nil || !game.HasResult() {
		return models.PickResultPending
	}
	return gradeSpread(pick.Team, game.Result.SpreadWinner, game.Result.IsPush)
}

func gradeSpread(team, spreadWinner string, isPush bool) models.PickResult {
	switch {
	case isPush:
		return models.PickResultPush
	case team == spreadWinner:
		return models.PickResultWin
	default:
		return models.PickResultLoss
	}
}

// IsPerfectWeek requires a full card of picks, every one decided, every one
// a win. A week with games still pending is not perfect yet.
func IsPerfectWeek(r models.Record) bool {
	return r.GamesPlayed() == models.MaxPicksPerWeek &&
		r.Pending == 0 &&
		r.Wins == models.MaxPicksPerWeek
}

// LeaderboardService computes regular-season standings on demand from picks
// and game results. Nothing is cached.
type LeaderboardService struct {
	games GameRepository
	picks PickRepository
	users UserRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(games GameRepository, picks PickRepository, users UserRepository) *LeaderboardService {
	return &LeaderboardService{
		games: games,
		picks: picks,
		users: users,
	}
}

// userWeeks is a user's records keyed by week
type userWeeks map[int]*models.Record

func tallyPicks(picks []*models.Pick, games map[primitive.ObjectID]*models.Game) map[primitive.ObjectID]userWeeks {
	tallies := make(map[primitive.ObjectID]userWeeks)
	for _, pick := range picks {
		weeks, ok := tallies[pick.UserID]
		if !ok {
			weeks = make(userWeeks)
			tallies[pick.UserID] = weeks
		}
		record, ok := weeks[pick.Week]
		if !ok {
			record = &models.Record{}
			weeks[pick.Week] = record
		}
		record.Add(ScorePick(pick, games[pick.GameID]))
	}
	return tallies
}

func indexGames(games []*models.Game) map[primitive.ObjectID]*models.Game {
	byID := make(map[primitive.ObjectID]*models.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	return byID
}

// lookupNames maps user IDs to display names, falling back to the hex ID
// for users that no longer exist
func lookupNames(ctx context.Context, users UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	found, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range found {
		names[u.ID] = u.Name()
	}
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			names[id] = id.Hex()
		}
	}
	return names, nil
}

// standingLess orders by wins, then win percentage, then name
func standingLess(aWins int, aPct float64, aName string, bWins int, bPct float64, bName string) bool {
	if aWins != bWins {
		return aWins > bWins
	}
	if aPct != bPct {
		return aPct > bPct
	}
	return aName < bName
}

// GetWeeklyLeaderboard ranks every user who picked in the given week
func (s *LeaderboardService) GetWeeklyLeaderboard(ctx context.Context, season, week int) ([]models.WeeklyEntry, error) {
	games, err := s.games.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for week: %w", err)
	}
	picks, err := s.picks.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks for week: %w", err)
	}

	tallies := tallyPicks(picks, indexGames(games))
	userIDs := make([]primitive.ObjectID, 0, len(tallies))
	for id := range tallies {
		userIDs = append(userIDs, id)
	}
	names, err := lookupNames(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.WeeklyEntry, 0, len(tallies))
	for userID, weeks := range tallies {
		record := weeks[week]
		if record == nil {
			continue
		}
		entries = append(entries, models.WeeklyEntry{
			UserID:        userID,
			DisplayName:   names[userID],
			Season:        season,
			Week:          week,
			Record:        *record,
			GamesPlayed:   record.GamesPlayed(),
			WinPercentage: record.WinPercentage(),
			IsPerfectWeek: IsPerfectWeek(*record),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return standingLess(a.Record.Wins, a.WinPercentage, a.DisplayName, b.Record.Wins, b.WinPercentage, b.DisplayName)
	})
	for i := range entries {
		if i > 0 && entries[i].Record.Wins == entries[i-1].Record.Wins && entries[i].WinPercentage == entries[i-1].WinPercentage {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries, nil
}

// GetSeasonLeaderboard sums every user's weeks across the season
func (s *LeaderboardService) GetSeasonLeaderboard(ctx context.Context, season int) ([]models.SeasonEntry, error) {
	games, err := s.games.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for season: %w", err)
	}
	picks, err := s.picks.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks for season: %w", err)
	}

	tallies := tallyPicks(picks, indexGames(games))
	userIDs := make([]primitive.ObjectID, 0, len(tallies))
	for id := range tallies {
		userIDs = append(userIDs, id)
	}
	names, err := lookupNames(ctx, s.users, userIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.SeasonEntry, 0, len(tallies))
	for userID, weeks := range tallies {
		entry := models.SeasonEntry{
			UserID:      userID,
			DisplayName: names[userID],
			Season:      season,
		}
		for _, record := range weeks {
			entry.Record.Merge(*record)
			entry.WeeksPlayed++
			if IsPerfectWeek(*record) {
				entry.PerfectWeeks++
			}
		}
		entry.GamesPlayed = entry.Record.GamesPlayed()
		entry.WinPercentage = entry.Record.WinPercentage()
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		return standingLess(a.Record.Wins, a.WinPercentage, a.DisplayName, b.Record.Wins, b.WinPercentage, b.DisplayName)
	})
	for i := range entries {
		if i > 0 && entries[i].Record.Wins == entries[i-1].Record.Wins && entries[i].WinPercentage == entries[i-1].WinPercentage {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries, nil
}

// GetUserSeasonHistory returns one user's picks for the season, graded and
// grouped by week
func (s *LeaderboardService) GetUserSeasonHistory(ctx context.Context, userID primitive.ObjectID, season int) (*models.UserSeasonHistory, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	games, err := s.games.FindBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get games for season: %w", err)
	}
	picks, err := s.picks.FindByUserSeason(ctx, userID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to get user picks: %w", err)
	}
	gameMap := indexGames(games)

	byWeek := make(map[int]*models.WeekHistory)
	for _, pick := range picks {
		wh, ok := byWeek[pick.Week]
		if !ok {
			wh = &models.WeekHistory{Week: pick.Week, Picks: []models.PickDetail{}}
			byWeek[pick.Week] = wh
		}

		game := gameMap[pick.GameID]
		result := ScorePick(pick, game)
		wh.Record.Add(result)
		wh.Picks = append(wh.Picks, pickDetail(pick, game, result))
	}

	history := &models.UserSeasonHistory{
		UserID:      userID,
		DisplayName: user.Name(),
		Season:      season,
		Weeks:       make([]models.WeekHistory, 0, len(byWeek)),
	}
	for _, wh := range byWeek {
		wh.WinPercentage = wh.Record.WinPercentage()
		wh.IsPerfectWeek = IsPerfectWeek(wh.Record)
		history.Totals.Merge(wh.Record)
		history.WeeksPlayed++
		if wh.IsPerfectWeek {
			history.PerfectWeeks++
		}
		history.Weeks = append(history.Weeks, *wh)
	}
	sort.Slice(history.Weeks, func(i, j int) bool { return history.Weeks[i].Week < history.Weeks[j].Week })
	history.WinPercentage = history.Totals.WinPercentage()

	return history, nil
}

func pickDetail(pick *models.Pick, game *models.Game, result models.PickResult) models.PickDetail {
	detail := models.PickDetail{
		GameID: pick.GameID,
		Team:   pick.Team,
		Result: result,
	}
	if game == nil {
		return detail
	}
	detail.Favorite = game.Favorite
	detail.Underdog = game.Underdog
	detail.Line = game.Line
	if game.HasResult() {
		fav, dog := game.Result.FavoriteScore, game.Result.UnderdogScore
		detail.FavoriteScore = &fav
		detail.UnderdogScore = &dog
		detail.SpreadWinner = game.Result.SpreadWinner
	}
	return detail
}
