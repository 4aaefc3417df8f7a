package handlers

import (
	"net/http"

	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/services"
	"github.com/go-chi/chi/v5"
)

type TournamentHandler struct {
	tournaments services.TournamentService
	snapshots   services.SnapshotService
}

func NewTournamentHandler(tournaments services.TournamentService, snapshots services.SnapshotService) *TournamentHandler {
	return &TournamentHandler{
		tournaments: tournaments,
		snapshots:   snapshots,
	}
}

// CreateHandler handles POST /tournaments.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	output, err := h.tournaments.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, output, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournaments.Get(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResultsHandler handles POST /tournaments/{tournamentID}/results.
func (h *TournamentHandler) SubmitResultsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Results []models.MatchResult `json:"results"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.tournaments.SubmitResults(r.Context(), chi.URLParam(r, "tournamentID"), input.Results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"outcome": outcome}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PasteResultsHandler handles POST /tournaments/{tournamentID}/results/paste.
// Rows that fail to parse are reported per line with 422; a fully parsed
// batch goes through the same atomic submission as the form.
func (h *TournamentHandler) PasteResultsHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Text string `json:"text"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcome, err := h.tournaments.SubmitPastedResults(r.Context(), chi.URLParam(r, "tournamentID"), input.Text)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusOK
	if len(outcome.ParseErrors) > 0 {
		status = http.StatusUnprocessableEntity
	}
	if err := writeJSON(w, status, outcome, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FixturesHandler handles GET /tournaments/{tournamentID}/fixtures and
// returns plain text for the clipboard button.
func (h *TournamentHandler) FixturesHandler(w http.ResponseWriter, r *http.Request) {
	text, err := h.tournaments.FixtureText(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// GraphHandler handles GET /tournaments/{tournamentID}/graph. With
// ?format=dot the response is the Graphviz rendering instead of JSON.
func (h *TournamentHandler) GraphHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	if r.URL.Query().Get("format") == "dot" {
		dotGraph, err := h.tournaments.GraphDOT(r.Context(), id)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(dotGraph))
		return
	}

	graph, err := h.tournaments.Graph(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"graph": graph}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetHandler handles POST /tournaments/{tournamentID}/reset.
func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.tournaments.Reset(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TokenHandler handles POST /tournaments/{tournamentID}/token, exchanging
// the tournament passcode for a fresh organizer token.
func (h *TournamentHandler) TokenHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Passcode string `json:"passcode"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, err := h.tournaments.IssueToken(r.Context(), chi.URLParam(r, "tournamentID"), input.Passcode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SnapshotHandler handles POST /tournaments/{tournamentID}/snapshot.
func (h *TournamentHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	result, err := h.snapshots.Publish(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"snapshot": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
