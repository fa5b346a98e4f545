package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"cfb-pickem-go/memory"
	"cfb-pickem-go/middleware"
	"cfb-pickem-go/models"
	"cfb-pickem-go/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret  = "handler-test-secret"
	testSyncKey = "sync-key"
)

type stubProvider struct {
	configured bool
	results    []services.ExternalGameResult
	err        error
	calls      int
}

func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) GetWeekResults(ctx context.Context, season, week int) ([]services.ExternalGameResult, error) {
	p.calls++
	return p.results, p.err
}

func (p *stubProvider) GetPostseasonResults(ctx context.Context, season int) ([]services.ExternalGameResult, error) {
	p.calls++
	return p.results, p.err
}

type failingStore struct{}

func (failingStore) Ping(ctx context.Context) error { return errors.New("no reachable servers") }

type testAPI struct {
	router    *mux.Router
	auth      *services.AuthService
	games     *memory.GameRepository
	bowlGames *memory.BowlGameRepository
	provider  *stubProvider
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testSyncKey), bcrypt.MinCost)
	require.NoError(t, err)

	games := memory.NewGameRepository()
	bowlGames := memory.NewBowlGameRepository()
	picks := memory.NewPickRepository()
	bowlPicks := memory.NewBowlPickRepository()
	users := memory.NewUserRepository()
	aliases := memory.NewTeamAliasRepository(models.NewTeamAlias("Bama", "Alabama"))

	normalizer := services.NewTeamNameNormalizer(aliases)
	gameService := services.NewGameService(games, bowlGames, normalizer)
	resultService := services.NewResultService(games, bowlGames, services.NewResultMatcher(games, normalizer), nil)
	pickService := services.NewPickService(games, bowlGames, picks, bowlPicks, normalizer, models.LockPolicy{}, nil)
	auth := services.NewAuthService(users, testSecret, "", string(hash))
	provider := &stubProvider{}
	validator := NewRequestValidator()

	routes := Routes{
		Leaderboards: NewLeaderboardHandler(gameService, services.NewLeaderboardService(games, picks, users)),
		Bowls:        NewBowlHandler(gameService, services.NewBowlLeaderboardService(bowlGames, bowlPicks, users)),
		Picks:        NewPickHandler(pickService, validator),
		Admin:        NewAdminHandler(gameService, resultService, normalizer, validator),
		Sync:         NewSyncHandler(resultService, provider, validator),
		Users:        NewUserHandler(services.NewUserService(users)),
		Auth:         middleware.NewAuthMiddleware(auth),
		Season:       2024,
	}
	r := mux.NewRouter()
	routes.Register(r)

	return &testAPI{router: r, auth: auth, games: games, bowlGames: bowlGames, provider: provider}
}

func (a *testAPI) token(t *testing.T, subject string, admin bool) string {
	t.Helper()
	token, err := a.auth.GenerateToken(subject, subject+"@example.com", strings.ToUpper(subject[:1])+subject[1:], admin)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

// uploadWeek posts the lines as an admin and returns the stored games
func (a *testAPI) uploadWeek(t *testing.T, week int, lines []map[string]interface{}) []models.Game {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/admin/seasons/2024/weeks/"+strconv.Itoa(week)+"/games", a.token(t, "admin", true),
		map[string]interface{}{"games": lines})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var games []models.Game
	decodeBody(t, rec, &games)
	return games
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	Healthz(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Healthz(failingStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no reachable servers")
}

func TestPublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/season", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"season": 2024}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/seasons/2024/weeks/1/leaderboard", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/seasons/2024/weeks/15/games", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/seasons/1850/leaderboard", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/users/65f1c0ffee0000000000beef", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/users/not-an-id", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(t, http.MethodGet, "/api/me", "", nil).Code)

	rec := api.do(t, http.MethodGet, "/api/me", api.token(t, "alice", false), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	decodeBody(t, rec, &me)
	assert.Equal(t, "Alice", me.DisplayName)
	assert.False(t, me.ID.IsZero())

	rec = api.do(t, http.MethodGet, "/api/users/"+me.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": "`+me.ID.Hex()+`", "displayName": "Alice"}`, rec.Body.String())
}

func TestWeeklyPicks(t *testing.T) {
	api := newTestAPI(t)
	early := time.Now().Add(72 * time.Hour).UTC()
	games := api.uploadWeek(t, 5, []map[string]interface{}{
		{"favorite": "Ohio State", "underdog": "Penn State", "line": -3.5, "kickoff": early.Add(3 * time.Hour).Format(time.RFC3339)},
		{"favorite": "Bama", "underdog": "Tennessee", "line": -7.5, "kickoff": early.Format(time.RFC3339)},
	})
	require.Len(t, games, 2)
	require.Equal(t, "Alabama", games[0].Favorite)
	alice := api.token(t, "alice", false)

	t.Run("requires a token", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/seasons/2024/weeks/5/picks", "", `{"picks": []}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("saves and reads back", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/seasons/2024/weeks/5/picks", alice, map[string]interface{}{
			"picks": []map[string]string{
				{"gameId": games[0].ID.Hex(), "team": "Tennessee"},
				{"gameId": games[1].ID.Hex(), "team": "Ohio State"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = api.do(t, http.MethodGet, "/api/seasons/2024/weeks/5/picks", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var picks []models.Pick
		decodeBody(t, rec, &picks)
		assert.Len(t, picks, 2)
	})

	t.Run("rejections are 422 with a reason", func(t *testing.T) {
		tests := []struct {
			name    string
			body    interface{}
			wantErr string
		}{
			{"malformed JSON", `{"picks": [`, "invalid JSON body"},
			{"unknown field", `{"picks": [], "extra": 1}`, "invalid JSON body"},
			{"bad game id", `{"picks": [{"gameId": "nope", "team": "Tennessee"}]}`, "must be a 24-character hex id"},
			{"team not in game", map[string]interface{}{
				"picks": []map[string]string{{"gameId": games[0].ID.Hex(), "team": "Auburn"}},
			}, `"Auburn" is not playing`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := api.do(t, http.MethodPut, "/api/seasons/2024/weeks/5/picks", alice, tt.body)
				assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
				var body errorResponse
				decodeBody(t, rec, &body)
				assert.Contains(t, body.Error, tt.wantErr)
			})
		}
	})
}

func TestBowlPicks_ConfidenceRejection(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(t, "admin", true)
	kickoff := time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)

	rec := api.do(t, http.MethodPost, "/api/admin/bowls/2024/games", admin, map[string]interface{}{
		"games": []map[string]interface{}{
			{"gameNumber": 1, "bowlName": "Rose Bowl", "favorite": "Oregon", "underdog": "Ohio State", "line": -2.5, "kickoff": kickoff},
			{"gameNumber": 2, "bowlName": "Sugar Bowl", "favorite": "Georgia", "underdog": "Notre Dame", "line": -1, "kickoff": kickoff},
			{"gameNumber": 3, "bowlName": "Peach Bowl", "favorite": "Texas", "underdog": "Arizona State", "line": -13.5, "kickoff": kickoff},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var games []models.BowlGame
	decodeBody(t, rec, &games)
	require.Len(t, games, 3)

	entry := func(points ...int) map[string]interface{} {
		picks := make([]map[string]interface{}, len(points))
		for i, p := range points {
			picks[i] = map[string]interface{}{
				"bowlGameId":       games[i].ID.Hex(),
				"spreadPick":       games[i].Underdog,
				"confidencePoints": p,
				"outrightPick":     games[i].Favorite,
			}
		}
		return map[string]interface{}{"picks": picks}
	}
	alice := api.token(t, "alice", false)

	rec = api.do(t, http.MethodPut, "/api/bowls/2024/picks", alice, entry(1, 2, 2))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, 6, body.ExpectedSum)
	assert.Equal(t, 5, body.ActualSum)
	assert.Contains(t, body.Error, "confidence 2 is used for both")

	rec = api.do(t, http.MethodPut, "/api/bowls/2024/picks", alice, entry(2, 3, 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/bowls/2024/picks", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var picks []models.BowlPick
	decodeBody(t, rec, &picks)
	require.Len(t, picks, 3)
	assert.Equal(t, 3, picks[0].ConfidencePoints)
}

func TestAdminResults(t *testing.T) {
	api := newTestAPI(t)
	games := api.uploadWeek(t, 13, []map[string]interface{}{
		{"favorite": "Alabama", "underdog": "Auburn", "line": -7.5, "kickoff": "2024-11-30T20:30:00Z"},
	})
	require.Len(t, games, 1)
	path := "/api/admin/games/" + games[0].ID.Hex() + "/result"
	admin := api.token(t, "admin", true)

	t.Run("non-admin is forbidden", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, path, api.token(t, "alice", false), `{"favoriteScore": 30, "underdogScore": 20}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("enter, conflict, correct", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, path, admin, `{"favoriteScore": 30, "underdogScore": 20}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var game models.Game
		decodeBody(t, rec, &game)
		require.NotNil(t, game.Result)
		assert.Equal(t, "Alabama", game.Result.SpreadWinner)
		assert.Equal(t, "admin@example.com", game.Result.EnteredBy)

		rec = api.do(t, http.MethodPost, path, admin, `{"favoriteScore": 27, "underdogScore": 20}`)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = api.do(t, http.MethodPut, path, admin, `{"favoriteScore": 27, "underdogScore": 20}`)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &game)
		assert.Equal(t, "Auburn", game.Result.SpreadWinner)
	})

	t.Run("bad requests", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, path, admin, `{"favoriteScore": 30}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = api.do(t, http.MethodPost, path, admin, `{"favoriteScore": -1, "underdogScore": 3}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = api.do(t, http.MethodPost, "/api/admin/games/65f1c0ffee0000000000beef/result", admin, `{"favoriteScore": 1, "underdogScore": 0}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = api.do(t, http.MethodPut, "/api/admin/bowls/games/65f1c0ffee0000000000beef/result", admin, `{"favoriteScore": 1, "underdogScore": 0}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("positive line upload is rejected", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/api/admin/seasons/2024/weeks/13/games", admin, map[string]interface{}{
			"games": []map[string]interface{}{
				{"favorite": "Texas", "underdog": "Texas A&M", "line": 2.5, "kickoff": "2024-11-30T20:30:00Z"},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestAliases(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(t, "admin", true)

	rec := api.do(t, http.MethodPost, "/api/admin/aliases", admin, `{"alias": "Ole Miss", "canonicalName": "Mississippi"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/admin/aliases", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliases []models.TeamAlias
	decodeBody(t, rec, &aliases)
	assert.Len(t, aliases, 2)

	games := api.uploadWeek(t, 8, []map[string]interface{}{
		{"favorite": "Ole Miss", "underdog": "LSU", "line": -3, "kickoff": "2024-10-12T23:00:00Z"},
	})
	require.Len(t, games, 1)
	assert.Equal(t, "Mississippi", games[0].Favorite)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/admin/aliases/Ole%20Miss", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, "/api/admin/aliases/Ole%20Miss", admin, nil).Code)
}

func TestSync(t *testing.T) {
	setup := func(t *testing.T) (*testAPI, []models.Game) {
		api := newTestAPI(t)
		games := api.uploadWeek(t, 13, []map[string]interface{}{
			{"favorite": "Alabama", "underdog": "Auburn", "line": -7.5, "kickoff": "2024-11-30T20:30:00Z"},
			{"favorite": "Ohio State", "underdog": "Michigan", "line": -3, "kickoff": "2024-11-30T17:00:00Z"},
		})
		return api, games
	}
	posted := `{"results": [
		{"homeTeam": "Auburn", "awayTeam": "Bama", "homeScore": 20, "awayScore": 30, "isCompleted": true},
		{"homeTeam": "Michigan", "awayTeam": "Ohio State", "homeScore": 17, "awayScore": 20, "isCompleted": true}
	]}`
	path := "/api/sync/seasons/2024/weeks/13/results"

	t.Run("posted results with the sync key", func(t *testing.T) {
		api, _ := setup(t)

		rec := api.do(t, http.MethodPost, path, "", posted, middleware.SyncKeyHeader, testSyncKey)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var report services.SyncReport
		decodeBody(t, rec, &report)
		assert.Len(t, report.Applied, 2)
		assert.Empty(t, report.Unmatched)

		rec = api.do(t, http.MethodPost, path, "", posted, middleware.SyncKeyHeader, testSyncKey)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &report)
		assert.Empty(t, report.Applied)
		assert.Equal(t, 2, report.AlreadyHadResults)

		week, err := api.games.FindByWeek(context.Background(), 2024, 13)
		require.NoError(t, err)
		for _, g := range week {
			require.NotNil(t, g.Result)
			assert.Equal(t, "sync", g.Result.EnteredBy)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		api, _ := setup(t)
		rec := api.do(t, http.MethodPost, path, "", posted, middleware.SyncKeyHeader, "guess")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token works without a key", func(t *testing.T) {
		api, _ := setup(t)
		rec := api.do(t, http.MethodPost, path, api.token(t, "admin", true), posted)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty body without a provider", func(t *testing.T) {
		api, _ := setup(t)
		rec := api.do(t, http.MethodPost, path, "", nil, middleware.SyncKeyHeader, testSyncKey)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("empty body fetches from the provider", func(t *testing.T) {
		api, _ := setup(t)
		api.provider.configured = true
		api.provider.results = []services.ExternalGameResult{
			{ExternalID: "401", HomeTeam: "Auburn", AwayTeam: "Alabama", HomeScore: 20, AwayScore: 30, IsCompleted: true, Week: 13},
		}

		rec := api.do(t, http.MethodPost, path, "", nil, middleware.SyncKeyHeader, testSyncKey)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 1, api.provider.calls)
		var report services.SyncReport
		decodeBody(t, rec, &report)
		require.Len(t, report.Applied, 1)
		assert.Equal(t, "401", report.Applied[0].ExternalID)
	})

	t.Run("provider failure is a bad gateway", func(t *testing.T) {
		api, _ := setup(t)
		api.provider.configured = true
		api.provider.err = errors.New("timeout")

		rec := api.do(t, http.MethodPost, "/api/sync/bowls/2024/results", "", nil, middleware.SyncKeyHeader, testSyncKey)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
