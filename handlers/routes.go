package handlers

import (
	"cfb-pickem-go/middleware"

	"github.com/gorilla/mux"
)

// Routes is everything the HTTP API mounts
type Routes struct {
	Leaderboards *LeaderboardHandler
	Bowls        *BowlHandler
	Picks        *PickHandler
	Admin        *AdminHandler
	Sync         *SyncHandler
	Users        *UserHandler
	Auth         *middleware.AuthMiddleware
	Store        Pinger
	Season       int
}

// Register mounts /healthz and the /api tree on r
func (rt Routes) Register(r *mux.Router) {
	r.HandleFunc("/healthz", Healthz(rt.Store)).Methods("GET")

	// Public standings
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/season", CurrentSeason(rt.Season)).Methods("GET")
	api.HandleFunc("/seasons/{season}/weeks/{week}/games", rt.Leaderboards.GetWeekGames).Methods("GET")
	api.HandleFunc("/seasons/{season}/weeks/{week}/leaderboard", rt.Leaderboards.GetWeeklyLeaderboard).Methods("GET")
	api.HandleFunc("/seasons/{season}/leaderboard", rt.Leaderboards.GetSeasonLeaderboard).Methods("GET")
	api.HandleFunc("/seasons/{season}/users/{userID}/history", rt.Leaderboards.GetUserHistory).Methods("GET")
	api.HandleFunc("/bowls/{season}/games", rt.Bowls.GetBowlGames).Methods("GET")
	api.HandleFunc("/bowls/{season}/leaderboard", rt.Bowls.GetBowlLeaderboard).Methods("GET")
	api.HandleFunc("/bowls/{season}/leaderboard/outright", rt.Bowls.GetOutrightLeaderboard).Methods("GET")
	api.HandleFunc("/bowls/{season}/users/{userID}/history", rt.Bowls.GetUserBowlHistory).Methods("GET")
	api.HandleFunc("/users/{userID}", rt.Users.GetProfile).Methods("GET")

	// Admin and sync go first so the auth-only subrouter below does not
	// claim their paths.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(rt.Auth.RequireAdmin)
	admin.HandleFunc("/seasons/{season}/weeks/{week}/games", rt.Admin.UploadWeekGames).Methods("POST")
	admin.HandleFunc("/games/{id}/result", rt.Admin.EnterResult).Methods("POST")
	admin.HandleFunc("/games/{id}/result", rt.Admin.CorrectResult).Methods("PUT")
	admin.HandleFunc("/bowls/{season}/games", rt.Admin.UploadBowlGames).Methods("POST")
	admin.HandleFunc("/bowls/games/{id}/result", rt.Admin.EnterBowlResult).Methods("POST")
	admin.HandleFunc("/bowls/games/{id}/result", rt.Admin.CorrectBowlResult).Methods("PUT")
	admin.HandleFunc("/aliases", rt.Admin.ListAliases).Methods("GET")
	admin.HandleFunc("/aliases", rt.Admin.SetAlias).Methods("POST")
	admin.HandleFunc("/aliases/{alias}", rt.Admin.DeleteAlias).Methods("DELETE")

	sync := api.PathPrefix("/sync").Subrouter()
	sync.Use(rt.Auth.RequireSyncKeyOrAdmin)
	sync.HandleFunc("/seasons/{season}/weeks/{week}/results", rt.Sync.SyncWeekResults).Methods("POST")
	sync.HandleFunc("/bowls/{season}/results", rt.Sync.SyncBowlResults).Methods("POST")

	// Current user
	me := api.NewRoute().Subrouter()
	me.Use(rt.Auth.RequireAuth)
	me.HandleFunc("/me", rt.Users.Me).Methods("GET")
	me.HandleFunc("/seasons/{season}/weeks/{week}/picks", rt.Picks.GetWeekPicks).Methods("GET")
	me.HandleFunc("/seasons/{season}/weeks/{week}/picks", rt.Picks.SubmitWeekPicks).Methods("PUT")
	me.HandleFunc("/bowls/{season}/picks", rt.Picks.GetBowlPicks).Methods("GET")
	me.HandleFunc("/bowls/{season}/picks", rt.Picks.SubmitBowlPicks).Methods("PUT")
}
