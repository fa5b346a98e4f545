package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"cfb-pickem-go/logging"
	"cfb-pickem-go/models"
	"cfb-pickem-go/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodyBytes bounds request bodies; a full bowl entry is well under this
const maxBodyBytes = 1 << 20

// errorResponse is the JSON body of every error
type errorResponse struct {
	Error       string `json:"error"`
	ExpectedSum int    `json:"expectedSum,omitempty"`
	ActualSum   int    `json:"actualSum,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Errorf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service errors onto status codes. Rejected input
// is 422 with the reason, missing records 404, result-state conflicts 409.
func writeServiceError(w http.ResponseWriter, logger *logging.Logger, err error) {
	var rejection *services.SubmissionError
	switch {
	case errors.As(err, &rejection):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:       rejection.Reason,
			ExpectedSum: rejection.ExpectedSum,
			ActualSum:   rejection.ActualSum,
		})
	case errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrBowlGameNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAliasNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case services.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a bounded JSON body and validates it
func decodeJSON(w http.ResponseWriter, r *http.Request, v *RequestValidator, dst interface{}) error {
	return decode(w, r, v, dst, false)
}

// decodeOptionalJSON is decodeJSON that accepts an empty body
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v *RequestValidator, dst interface{}) error {
	return decode(w, r, v, dst, true)
}

func decode(w http.ResponseWriter, r *http.Request, v *RequestValidator, dst interface{}, optional bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return &services.SubmissionError{Reason: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return v.Validate(dst)
}

func intVar(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &services.SubmissionError{Reason: fmt.Sprintf("%s must be a number, got %q", name, raw)}
	}
	return n, nil
}

func seasonVar(r *http.Request) (int, error) {
	season, err := intVar(r, "season")
	if err != nil {
		return 0, err
	}
	if season < 2000 || season > 2100 {
		return 0, &services.SubmissionError{Reason: fmt.Sprintf("season %d is out of range", season)}
	}
	return season, nil
}

func weekVar(r *http.Request) (int, error) {
	week, err := intVar(r, "week")
	if err != nil {
		return 0, err
	}
	if week < models.MinWeek || week > models.MaxWeek {
		return 0, &services.SubmissionError{
			Reason: fmt.Sprintf("week must be between %d and %d, got %d", models.MinWeek, models.MaxWeek, week),
		}
	}
	return week, nil
}

func objectIDVar(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := mux.Vars(r)[name]
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &services.SubmissionError{Reason: fmt.Sprintf("%s %q is not a valid id", name, raw)}
	}
	return id, nil
}
