package services

// ResolveSpread determines the against-the-spread winner of a game.
// line is the favorite's handicap (zero or negative). The favorite covers
// when favoriteScore + line beats underdogScore; an exact tie is a push and
// the returned winner is empty. Raw scores are never compared on their own.
//
// Every result path (manual entry, corrections, external sync, bowls)
// resolves through this function.
func ResolveSpread(favorite, underdog string, line float64, favoriteScore, underdogScore int) (winner string, isPush bool) {
	adjustedMargin := float64(favoriteScore) + line - float64(underdogScore)

	switch {
	case adjustedMargin > 0:
		return favorite, false
	case adjustedMargin < 0:
		return underdog, false
	default:
		return "", true
	}
}

// ResolveOutright returns the straight-up winner, or "" if the scores are level
func ResolveOutright(favorite, underdog string, favoriteScore, underdogScore int) string {
	switch {
	case favoriteScore > underdogScore:
		return favorite
	case underdogScore > favoriteScore:
		return underdog
	default:
		return ""
	}
}
