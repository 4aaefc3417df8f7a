package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/services"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // programmer error: dst is not a pointer
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// mapServiceErrorToHTTP translates bracket and service errors into HTTP
// responses with enough structure for the form to highlight the offending
// pairs or lines.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var tieErr *brackets.TieError
	var validationErr *brackets.ValidationError
	var stateErr *brackets.StateError
	var invariantErr *brackets.InvariantError

	switch {
	case errors.Is(err, services.ErrTournamentNotFound):
		notFoundResponse(w, r)

	case errors.As(err, &tieErr):
		// Nothing was committed; the round is still pending correction.
		errorResponse(w, r, http.StatusUnprocessableEntity, jsonResponse{
			"kind":    "tie",
			"message": tieErr.Error(),
			"pairs":   tieErr.Pairs,
		})

	case errors.As(err, &validationErr):
		errorResponse(w, r, http.StatusUnprocessableEntity, jsonResponse{
			"kind":    "validation",
			"message": validationErr.Error(),
		})

	case errors.As(err, &stateErr):
		errorResponse(w, r, http.StatusConflict, jsonResponse{
			"kind":    "state",
			"message": stateErr.Error(),
			"phase":   stateErr.Phase,
		})

	case errors.As(err, &invariantErr):
		// Corrupted session; surface it loudly rather than auto-correct.
		serverErrorResponse(w, r, invariantErr)

	case errors.Is(err, services.ErrNoEntrants):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrPasscodeNotSet),
		errors.Is(err, services.ErrPasscodeInvalid):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrSnapshotsDisabled):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	case errors.Is(err, services.ErrNothingToSnapshot):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}
