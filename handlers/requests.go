package handlers

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"cfb-pickem-go/services"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestValidator wraps go-playground validator with the pick'em rules
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator with the custom rules registered
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterValidation("objectid", validateObjectID)
	v.RegisterValidation("team_name", validateTeamName)

	return &RequestValidator{validate: v}
}

// Validate validates a struct, flattening field errors into one message
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return &services.SubmissionError{Reason: strings.Join(msgs, "; ")}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "objectid":
		return fmt.Sprintf("%s must be a 24-character hex id", field)
	case "team_name":
		return fmt.Sprintf("%s is not a valid team name", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

// validateTeamName accepts letters, digits, spaces and the punctuation seen
// in school names ("Texas A&M", "Miami (OH)", "St. John's")
func validateTeamName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	if name == "" || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		if !strings.ContainsRune("&.'()-", r) {
			return false
		}
	}
	return true
}

// WeeklyPicksRequest is the body of PUT .../weeks/{week}/picks
type WeeklyPicksRequest struct {
	Picks []WeeklyPickRequest `json:"picks" validate:"max=6,dive"`
}

type WeeklyPickRequest struct {
	GameID string `json:"gameId" validate:"required,objectid"`
	Team   string `json:"team" validate:"required,team_name"`
}

// ToInputs converts the request to service input. Call after Validate.
func (r WeeklyPicksRequest) ToInputs() []services.WeeklyPickInput {
	inputs := make([]services.WeeklyPickInput, 0, len(r.Picks))
	for _, p := range r.Picks {
		id, _ := primitive.ObjectIDFromHex(p.GameID)
		inputs = append(inputs, services.WeeklyPickInput{GameID: id, Team: p.Team})
	}
	return inputs
}

// BowlPicksRequest is the body of PUT /api/bowls/{season}/picks. Confidence
// values are checked by the service so the rejection carries the expected sum.
type BowlPicksRequest struct {
	Picks []BowlPickRequest `json:"picks" validate:"required,min=1,dive"`
}

type BowlPickRequest struct {
	BowlGameID       string `json:"bowlGameId" validate:"required,objectid"`
	SpreadPick       string `json:"spreadPick" validate:"required,team_name"`
	ConfidencePoints int    `json:"confidencePoints"`
	OutrightPick     string `json:"outrightPick" validate:"required,team_name"`
}

func (r BowlPicksRequest) ToInputs() []services.BowlPickInput {
	inputs := make([]services.BowlPickInput, 0, len(r.Picks))
	for _, p := range r.Picks {
		id, _ := primitive.ObjectIDFromHex(p.BowlGameID)
		inputs = append(inputs, services.BowlPickInput{
			BowlGameID:       id,
			SpreadPick:       p.SpreadPick,
			ConfidencePoints: p.ConfidencePoints,
			OutrightPick:     p.OutrightPick,
		})
	}
	return inputs
}

// ResultRequest is an admin-entered final score
type ResultRequest struct {
	FavoriteScore *int `json:"favoriteScore" validate:"required,gte=0"`
	UnderdogScore *int `json:"underdogScore" validate:"required,gte=0"`
}

// GameLinesRequest uploads a week's lines
type GameLinesRequest struct {
	Games []GameLineRequest `json:"games" validate:"required,min=1,dive"`
}

type GameLineRequest struct {
	Favorite string    `json:"favorite" validate:"required,team_name"`
	Underdog string    `json:"underdog" validate:"required,team_name"`
	Line     float64   `json:"line" validate:"lte=0"`
	Kickoff  time.Time `json:"kickoff" validate:"required"`
}

func (r GameLinesRequest) ToInputs() []services.GameLineInput {
	inputs := make([]services.GameLineInput, 0, len(r.Games))
	for _, g := range r.Games {
		inputs = append(inputs, services.GameLineInput(g))
	}
	return inputs
}

// BowlLinesRequest uploads the bowl slate
type BowlLinesRequest struct {
	Games []BowlLineRequest `json:"games" validate:"required,min=1,dive"`
}

type BowlLineRequest struct {
	GameNumber int       `json:"gameNumber" validate:"required,min=1"`
	BowlName   string    `json:"bowlName" validate:"required"`
	Favorite   string    `json:"favorite" validate:"required,team_name"`
	Underdog   string    `json:"underdog" validate:"required,team_name"`
	Line       float64   `json:"line" validate:"lte=0"`
	Kickoff    time.Time `json:"kickoff" validate:"required"`
}

func (r BowlLinesRequest) ToInputs() []services.BowlLineInput {
	inputs := make([]services.BowlLineInput, 0, len(r.Games))
	for _, g := range r.Games {
		inputs = append(inputs, services.BowlLineInput(g))
	}
	return inputs
}

// AliasRequest maps an alias to a canonical team name
type AliasRequest struct {
	Alias         string `json:"alias" validate:"required,team_name"`
	CanonicalName string `json:"canonicalName" validate:"required,team_name"`
}

// SyncRequest optionally carries the provider results. When Results is
// empty the handler fetches them from CollegeFootballData.
type SyncRequest struct {
	Results []ExternalResultRequest `json:"results" validate:"dive"`
}

type ExternalResultRequest struct {
	ExternalID  string `json:"externalId"`
	HomeTeam    string `json:"homeTeam" validate:"required,team_name"`
	AwayTeam    string `json:"awayTeam" validate:"required,team_name"`
	HomeScore   int    `json:"homeScore" validate:"gte=0"`
	AwayScore   int    `json:"awayScore" validate:"gte=0"`
	IsCompleted bool   `json:"isCompleted"`
	Season      int    `json:"season"`
	Week        int    `json:"week"`
}

func (r SyncRequest) ToResults() []services.ExternalGameResult {
	results := make([]services.ExternalGameResult, 0, len(r.Results))
	for _, e := range r.Results {
		results = append(results, services.ExternalGameResult(e))
	}
	return results
}
