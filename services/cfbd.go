package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cfb-pickem-go/logging"
)

// CFBDConfig configures the CollegeFootballData client
type CFBDConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// CFBDService fetches final scores from the CollegeFootballData API
type CFBDService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *logging.Logger
}

// NewCFBDService creates a new CollegeFootballData client
func NewCFBDService(cfg CFBDConfig) *CFBDService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.collegefootballdata.com"
	}
	return &CFBDService{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		logger:  logging.WithPrefix("CFBD"),
	}
}

// CFBDGame is one entry of the /games response
type CFBDGame struct {
	ID         int    `json:"id"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SeasonType string `json:"seasonType"`
	StartDate  string `json:"startDate"`
	Completed  bool   `json:"completed"`
	HomeTeam   string `json:"homeTeam"`
	HomePoints *int   `json:"homePoints"`
	AwayTeam   string `json:"awayTeam"`
	AwayPoints *int   `json:"awayPoints"`
}

// Configured reports whether an API key is set
func (c *CFBDService) Configured() bool {
	return c.apiKey != ""
}

// GetWeekResults fetches a regular-season week's games as external results
func (c *CFBDService) GetWeekResults(ctx context.Context, season, week int) ([]ExternalGameResult, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(season))
	params.Set("week", strconv.Itoa(week))
	params.Set("seasonType", "regular")

	games, err := c.fetchGames(ctx, params)
	if err != nil {
		return nil, err
	}
	return convertCFBDGames(games), nil
}

// GetPostseasonResults fetches the bowl games of a season
func (c *CFBDService) GetPostseasonResults(ctx context.Context, season int) ([]ExternalGameResult, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(season))
	params.Set("seasonType", "postseason")

	games, err := c.fetchGames(ctx, params)
	if err != nil {
		return nil, err
	}
	return convertCFBDGames(games), nil
}

func (c *CFBDService) fetchGames(ctx context.Context, params url.Values) ([]CFBDGame, error) {
	endpoint := c.baseURL + "/games?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CFBD request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debugf("GET %s", endpoint)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CFBD request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CFBD API returned status %d", resp.StatusCode)
	}

	var games []CFBDGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode CFBD response: %w", err)
	}

	c.logger.Infof("Fetched %d games (%s)", len(games), params.Encode())
	return games, nil
}

// convertCFBDGames maps provider games onto ExternalGameResult. A game
// without both scores is reported as not completed.
func convertCFBDGames(games []CFBDGame) []ExternalGameResult {
	results := make([]ExternalGameResult, 0, len(games))
	for _, g := range games {
		r := ExternalGameResult{
			ExternalID:  strconv.Itoa(g.ID),
			HomeTeam:    g.HomeTeam,
			AwayTeam:    g.AwayTeam,
			IsCompleted: g.Completed && g.HomePoints != nil && g.AwayPoints != nil,
			Season:      g.Season,
			Week:        g.Week,
		}
		if g.SeasonType == "postseason" {
			r.Week = 0
		}
		if g.HomePoints != nil {
			r.HomeScore = *g.HomePoints
		}
		if g.AwayPoints != nil {
			r.AwayScore = *g.AwayPoints
		}
		results = append(results, r)
	}
	return results
}
