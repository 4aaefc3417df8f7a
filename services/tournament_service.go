package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/bracket-system/brackets"
	"github.com/Dosada05/bracket-system/models"
	"github.com/Dosada05/bracket-system/names"
	"github.com/Dosada05/bracket-system/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const defaultTokenTTL = 24 * time.Hour

type CreateTournamentInput struct {
	Name                string   `json:"name"`
	Entrants            []string `json:"entrants"`
	Passcode            string   `json:"passcode,omitempty"`
	SimilarityThreshold float64  `json:"similarity_threshold,omitempty"`
}

// TournamentView is the read-only projection handed to the presentation
// layer and broadcast over the live channel.
type TournamentView struct {
	ID             string               `json:"id"`
	Name           string               `json:"name,omitempty"`
	Phase          brackets.Phase       `json:"phase"`
	Round          int                  `json:"round"`
	PendingMatches []models.Pair        `json:"pending_matches"`
	Byes           []string             `json:"byes,omitempty"`
	History        []models.RoundRecord `json:"history"`
	Champion       string               `json:"champion,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type CreateTournamentOutput struct {
	Tournament *TournamentView `json:"tournament"`
	Token      string          `json:"token"`
	Warnings   []names.Warning `json:"warnings,omitempty"`
}

// PasteOutcome reports the pasted-rows path: per-line parse errors never
// block each other, but the parsed batch only commits when every line is
// well-formed, through the same atomic submission contract as the form.
type PasteOutcome struct {
	ParseErrors []brackets.ParseError  `json:"parse_errors,omitempty"`
	Outcome     *brackets.RoundOutcome `json:"outcome,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*CreateTournamentOutput, error)
	Get(ctx context.Context, id string) (*TournamentView, error)
	SubmitResults(ctx context.Context, id string, results []models.MatchResult) (*brackets.RoundOutcome, error)
	SubmitPastedResults(ctx context.Context, id string, text string) (*PasteOutcome, error)
	FixtureText(ctx context.Context, id string) (string, error)
	Graph(ctx context.Context, id string) (models.Graph, error)
	GraphDOT(ctx context.Context, id string) (string, error)
	Reset(ctx context.Context, id string) (*TournamentView, error)
	IssueToken(ctx context.Context, id string, passcode string) (string, error)
	PruneIdle(maxIdle time.Duration) int
}

// TournamentRoom is the hub room key for one tournament.
func TournamentRoom(id string) string {
	return "tournament_" + id
}

// session confines one bracket state to one tournament key. All engine
// access goes through the session mutex; the engine itself is single-threaded.
type session struct {
	id           string
	name         string
	passcodeHash string
	createdAt    time.Time

	mu         sync.Mutex
	state      *brackets.State
	lastActive time.Time
}

type tournamentService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	hub      *brackets.Hub
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
	newState func() *brackets.State
}

type TournamentOption func(*tournamentService)

// WithStateFactory overrides how fresh bracket states are built, letting
// tests inject a deterministic shuffle.
func WithStateFactory(factory func() *brackets.State) TournamentOption {
	return func(s *tournamentService) {
		if factory != nil {
			s.newState = factory
		}
	}
}

func WithTokenTTL(ttl time.Duration) TournamentOption {
	return func(s *tournamentService) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func NewTournamentService(hub *brackets.Hub, tokenSecret []byte, logger *slog.Logger, opts ...TournamentOption) TournamentService {
	s := &tournamentService{
		sessions: make(map[string]*session),
		hub:      hub,
		secret:   tokenSecret,
		tokenTTL: defaultTokenTTL,
		logger:   logger,
		newState: func() *brackets.State { return brackets.New() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*CreateTournamentOutput, error) {
	entrants, warnings := names.Prepare(input.Entrants, nil, input.SimilarityThreshold)
	if len(entrants) == 0 {
		return nil, ErrNoEntrants
	}

	state := s.newState()
	if err := state.Start(entrants); err != nil {
		return nil, err
	}

	sess := &session{
		id:         uuid.NewString(),
		name:       strings.TrimSpace(input.Name),
		createdAt:  time.Now(),
		lastActive: time.Now(),
		state:      state,
	}
	if input.Passcode != "" {
		hash, err := utils.HashPasscode(input.Passcode)
		if err != nil {
			return nil, fmt.Errorf("failed to hash passcode: %w", err)
		}
		sess.passcodeHash = hash
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	token, err := s.mintToken(sess.id)
	if err != nil {
		return nil, fmt.Errorf("failed to sign organizer token: %w", err)
	}

	sess.mu.Lock()
	view := sess.view()
	sess.mu.Unlock()

	s.logger.Info("tournament created",
		slog.String("tournament_id", sess.id),
		slog.Int("entrants", len(entrants)),
		slog.Int("byes", len(view.Byes)))
	s.hub.BroadcastToRoom(TournamentRoom(sess.id), brackets.Event{
		Type:         brackets.EventTournamentCreated,
		TournamentID: sess.id,
		Payload:      view,
	})

	return &CreateTournamentOutput{Tournament: view, Token: token, Warnings: warnings}, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*TournamentView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *tournamentService) SubmitResults(ctx context.Context, id string, results []models.MatchResult) (*brackets.RoundOutcome, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	outcome, err := sess.state.SubmitResults(results)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.lastActive = time.Now()
	view := sess.view()
	sess.mu.Unlock()

	s.logger.Info("round committed",
		slog.String("tournament_id", id),
		slog.Int("round", outcome.Round),
		slog.Int("matches", len(outcome.Results)))

	s.hub.BroadcastToRoom(TournamentRoom(id), brackets.Event{
		Type:         brackets.EventRoundCommitted,
		TournamentID: id,
		Payload:      outcome,
	})
	if outcome.Champion != "" {
		s.hub.BroadcastToRoom(TournamentRoom(id), brackets.Event{
			Type:         brackets.EventChampionDecided,
			TournamentID: id,
			Payload:      view,
		})
	}
	return outcome, nil
}

func (s *tournamentService) SubmitPastedResults(ctx context.Context, id string, text string) (*PasteOutcome, error) {
	report := brackets.ParseResultLines(text)
	if len(report.Errors) > 0 {
		// Malformed rows are reported per line; nothing is committed until
		// the whole paste parses.
		return &PasteOutcome{ParseErrors: report.Errors}, nil
	}

	outcome, err := s.SubmitResults(ctx, id, report.Results)
	if err != nil {
		return nil, err
	}
	return &PasteOutcome{Outcome: outcome}, nil
}

// FixtureText renders pending fixtures as copy-paste friendly "A vs B"
// lines with normalized newlines.
func (s *tournamentService) FixtureText(ctx context.Context, id string) (string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	pending := sess.state.PendingMatches()
	sess.mu.Unlock()

	lines := make([]string, len(pending))
	for i, match := range pending {
		lines[i] = match.PlayerA + " vs " + match.PlayerB
	}
	return strings.Join(lines, "\n"), nil
}

func (s *tournamentService) Graph(ctx context.Context, id string) (models.Graph, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return models.Graph{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return brackets.BuildGraph(sess.state.InitialPlayers(), sess.state.History()), nil
}

func (s *tournamentService) GraphDOT(ctx context.Context, id string) (string, error) {
	graph, err := s.Graph(ctx, id)
	if err != nil {
		return "", err
	}
	return brackets.RenderDOT(graph), nil
}

func (s *tournamentService) Reset(ctx context.Context, id string) (*TournamentView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if err := sess.state.Reset(); err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.lastActive = time.Now()
	view := sess.view()
	sess.mu.Unlock()

	s.logger.Info("tournament reset", slog.String("tournament_id", id))
	s.hub.BroadcastToRoom(TournamentRoom(id), brackets.Event{
		Type:         brackets.EventTournamentReset,
		TournamentID: id,
		Payload:      view,
	})
	return view, nil
}

// IssueToken exchanges the tournament passcode for a fresh organizer token,
// for organizers returning from another device.
func (s *tournamentService) IssueToken(ctx context.Context, id string, passcode string) (string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return "", err
	}
	if sess.passcodeHash == "" {
		return "", ErrPasscodeNotSet
	}
	if !utils.CheckPasscode(passcode, sess.passcodeHash) {
		return "", ErrPasscodeInvalid
	}
	return s.mintToken(id)
}

// PruneIdle drops sessions untouched for longer than maxIdle and returns how
// many were removed. State is in-memory only, so this is the entire cleanup
// story.
func (s *tournamentService) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		s.logger.Info("pruned idle tournaments", slog.Int("count", pruned))
	}
	return pruned
}

func (s *tournamentService) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return sess, nil
}

func (s *tournamentService) mintToken(id string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"tournament_id": id,
		"iat":           now.Unix(),
		"exp":           now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// view must be called with the session mutex held.
func (sess *session) view() *TournamentView {
	view := &TournamentView{
		ID:             sess.id,
		Name:           sess.name,
		Phase:          sess.state.Phase(),
		Round:          sess.state.Round(),
		PendingMatches: sess.state.PendingMatches(),
		Byes:           sess.state.Byes(),
		History:        sess.state.History(),
		CreatedAt:      sess.createdAt,
	}
	if champion, ok := sess.state.Champion(); ok {
		view.Champion = champion
	}
	return view
}
