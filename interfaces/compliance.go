// Package interfaces holds compile-time checks that every storage backend
// satisfies the repository interfaces the services depend on.
package interfaces

import (
	"cfb-pickem-go/database"
	"cfb-pickem-go/handlers"
	"cfb-pickem-go/memory"
	"cfb-pickem-go/services"
)

var (
	// MongoDB
	_ services.GameRepository      = (*database.MongoGameRepository)(nil)
	_ services.BowlGameRepository  = (*database.MongoBowlGameRepository)(nil)
	_ services.PickRepository      = (*database.MongoPickRepository)(nil)
	_ services.BowlPickRepository  = (*database.MongoBowlPickRepository)(nil)
	_ services.UserRepository      = (*database.MongoUserRepository)(nil)
	_ services.TeamAliasRepository = (*database.MongoTeamAliasRepository)(nil)

	// In-memory
	_ services.GameRepository      = (*memory.GameRepository)(nil)
	_ services.BowlGameRepository  = (*memory.BowlGameRepository)(nil)
	_ services.PickRepository      = (*memory.PickRepository)(nil)
	_ services.BowlPickRepository  = (*memory.BowlPickRepository)(nil)
	_ services.UserRepository      = (*memory.UserRepository)(nil)
	_ services.TeamAliasRepository = (*memory.TeamAliasRepository)(nil)

	// HTTP collaborators
	_ handlers.ResultsProvider = (*services.CFBDService)(nil)
	_ handlers.Pinger          = (*database.MongoDB)(nil)
)
