package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCFBDService_GetWeekResults(t *testing.T) {
	var gotQuery map[string]string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"year":       r.URL.Query().Get("year"),
			"week":       r.URL.Query().Get("week"),
			"seasonType": r.URL.Query().Get("seasonType"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 401628374, "season": 2024, "week": 13, "seasonType": "regular", "completed": true,
			 "homeTeam": "Auburn", "homePoints": 20, "awayTeam": "Alabama", "awayPoints": 30},
			{"id": 401628375, "season": 2024, "week": 13, "seasonType": "regular", "completed": false,
			 "homeTeam": "Michigan", "homePoints": null, "awayTeam": "Ohio State", "awayPoints": null}
		]`))
	}))
	defer server.Close()

	c := NewCFBDService(CFBDConfig{BaseURL: server.URL, APIKey: "secret"})
	require.True(t, c.Configured())

	results, err := c.GetWeekResults(context.Background(), 2024, 13)
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, map[string]string{"year": "2024", "week": "13", "seasonType": "regular"}, gotQuery)

	require.Len(t, results, 2)
	assert.Equal(t, ExternalGameResult{
		ExternalID:  "401628374",
		HomeTeam:    "Auburn",
		AwayTeam:    "Alabama",
		HomeScore:   20,
		AwayScore:   30,
		IsCompleted: true,
		Season:      2024,
		Week:        13,
	}, results[0])
	assert.False(t, results[1].IsCompleted)
	assert.Zero(t, results[1].HomeScore)
}

func TestCFBDService_GetPostseasonResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "postseason", r.URL.Query().Get("seasonType"))
		assert.Empty(t, r.URL.Query().Get("week"))
		w.Write([]byte(`[{"id": 1, "season": 2024, "week": 1, "seasonType": "postseason", "completed": true,
			"homeTeam": "Ohio State", "homePoints": 41, "awayTeam": "Oregon", "awayPoints": 21}]`))
	}))
	defer server.Close()

	c := NewCFBDService(CFBDConfig{BaseURL: server.URL, APIKey: "secret"})
	results, err := c.GetPostseasonResults(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Week, "bowl results carry no regular-season week")
	assert.Equal(t, 41, results[0].HomeScore)
}

func TestCFBDService_Errors(t *testing.T) {
	t.Run("non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewCFBDService(CFBDConfig{BaseURL: server.URL}).GetWeekResults(context.Background(), 2024, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("bad body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not": "a list"}`))
		}))
		defer server.Close()

		_, err := NewCFBDService(CFBDConfig{BaseURL: server.URL}).GetWeekResults(context.Background(), 2024, 1)
		assert.ErrorContains(t, err, "failed to decode")
	})

	t.Run("no key means not configured", func(t *testing.T) {
		assert.False(t, NewCFBDService(CFBDConfig{}).Configured())
	})
}
