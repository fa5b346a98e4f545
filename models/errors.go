package models

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrBowlGameNotFound = errors.New("bowl game not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrAliasNotFound    = errors.New("team alias not found")
	ErrResultExists     = errors.New("game already has a result")
	ErrNoResult         = errors.New("game has no result to correct")
)
