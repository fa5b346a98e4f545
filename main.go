package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cfb-pickem-go/config"
	"cfb-pickem-go/database"
	"cfb-pickem-go/handlers"
	_ "cfb-pickem-go/interfaces"
	"cfb-pickem-go/logging"
	"cfb-pickem-go/memory"
	"cfb-pickem-go/metrics"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/services"

	"github.com/gorilla/mux"
)

// repositories is the storage the services run on, MongoDB or in-memory
type repositories struct {
	games     services.GameRepository
	bowlGames services.BowlGameRepository
	picks     services.PickRepository
	bowlPicks services.BowlPickRepository
	users     services.UserRepository
	aliases   services.TeamAliasRepository
}

func mongoRepositories(db *database.MongoDB) repositories {
	return repositories{
		games:     database.NewMongoGameRepository(db),
		bowlGames: database.NewMongoBowlGameRepository(db),
		picks:     database.NewMongoPickRepository(db),
		bowlPicks: database.NewMongoBowlPickRepository(db),
		users:     database.NewMongoUserRepository(db),
		aliases:   database.NewMongoTeamAliasRepository(db),
	}
}

func memoryRepositories() repositories {
	return repositories{
		games:     memory.NewGameRepository(),
		bowlGames: memory.NewBowlGameRepository(),
		picks:     memory.NewPickRepository(),
		bowlPicks: memory.NewBowlPickRepository(),
		users:     memory.NewUserRepository(),
		aliases:   memory.NewTeamAliasRepository(services.DefaultTeamAliases()...),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(cfg.ToLoggingConfig())
	cfg.LogConfiguration()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos repositories
	var store handlers.Pinger
	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		if !cfg.App.IsDevelopment {
			logging.Fatalf("Database connection failed: %v", err)
		}
		logging.Warnf("Database connection failed: %v", err)
		logging.Warn("Continuing in demo mode with in-memory storage; nothing will be persisted")
		repos = memoryRepositories()
	} else {
		defer db.Close()
		repos = mongoRepositories(db)
		store = db
	}

	m := metrics.New()

	normalizer := services.NewTeamNameNormalizer(repos.aliases)
	if err := normalizer.Refresh(ctx); err != nil {
		logging.Errorf("Initial alias load failed: %v", err)
	}
	if db != nil {
		watcher := database.NewChangeStreamWatcher(db, 5*time.Second)
		go watcher.Watch(ctx, database.TeamAliasesCollection, func(database.ChangeEvent) {
			if err := normalizer.Refresh(ctx); err != nil {
				logging.Errorf("Alias reload after change failed: %v", err)
			}
		})
	}

	matcher := services.NewResultMatcher(repos.games, normalizer)
	resultService := services.NewResultService(repos.games, repos.bowlGames, matcher, m)
	gameService := services.NewGameService(repos.games, repos.bowlGames, normalizer)
	pickService := services.NewPickService(repos.games, repos.bowlGames, repos.picks, repos.bowlPicks, normalizer, cfg.ToLockPolicy(), m)
	leaderboardService := services.NewLeaderboardService(repos.games, repos.picks, repos.users)
	bowlLeaderboardService := services.NewBowlLeaderboardService(repos.bowlGames, repos.bowlPicks, repos.users)
	userService := services.NewUserService(repos.users)
	authService := services.NewAuthService(repos.users, cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.SyncKeyHash)
	cfbd := services.NewCFBDService(cfg.ToCFBDConfig())
	if !cfbd.Configured() {
		logging.Info("CFBD_API_KEY not set; syncs must post their results")
	}

	validator := handlers.NewRequestValidator()
	routes := handlers.Routes{
		Leaderboards: handlers.NewLeaderboardHandler(gameService, leaderboardService),
		Bowls:        handlers.NewBowlHandler(gameService, bowlLeaderboardService),
		Picks:        handlers.NewPickHandler(pickService, validator),
		Admin:        handlers.NewAdminHandler(gameService, resultService, normalizer, validator),
		Sync:         handlers.NewSyncHandler(resultService, cfbd, validator),
		Users:        handlers.NewUserHandler(userService),
		Auth:         middleware.NewAuthMiddleware(authService),
		Store:        store,
		Season:       cfg.App.CurrentSeason,
	}

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.Use(middleware.SecurityHeaders(cfg.Server.BehindProxy))
	r.Use(middleware.RequestLogger)

	r.Handle("/metrics", m.Handler()).Methods("GET")
	routes.Register(r)

	server := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		var err error
		if cfg.Server.UseTLS {
			logging.Infof("Server starting on https://%s", server.Addr)
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			logging.Infof("Server starting on http://%s", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Errorf("Graceful shutdown failed: %v", err)
	}
}
