// Package brackets implements the single-elimination tournament core: the
// round-by-round bracket state machine, the pasted-result parser, the bracket
// graph projection, and the websocket hub that pushes live updates.
package brackets

import (
	"math/bits"
	"math/rand"

	"github.com/Dosada05/bracket-system/models"
)

// Phase is the externally visible lifecycle stage of one tournament.
// The round-complete stage is transient: committing results immediately
// re-pairs the next round or crowns a champion.
type Phase string

const (
	PhaseAwaitingEntrants Phase = "awaiting_entrants"
	PhaseRoundPending     Phase = "round_pending"
	PhaseChampion         Phase = "champion"
)

// ShuffleFunc permutes a pool in place. It is the only source of randomness
// in the engine; tests inject a fixed permutation.
type ShuffleFunc func([]string)

type Option func(*State)

// WithShuffle replaces the default uniform shuffle.
func WithShuffle(fn ShuffleFunc) Option {
	return func(s *State) {
		if fn != nil {
			s.shuffle = fn
		}
	}
}

// State owns the progression of a single tournament. It is not safe for
// concurrent use; callers confine one State to one session.
type State struct {
	round          int
	phase          Phase
	initialPlayers []string
	pendingMatches []models.Pair
	winners        []string
	byes           []string
	history        []models.RoundRecord

	shuffle ShuffleFunc
}

func New(opts ...Option) *State {
	s := &State{
		round: 1,
		phase: PhaseAwaitingEntrants,
		shuffle: func(pool []string) {
			rand.Shuffle(len(pool), func(i, j int) {
				pool[i], pool[j] = pool[j], pool[i]
			})
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsPowerOfTwo reports whether n is positive with exactly one set bit.
func IsPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// NextPowerOfTwo returns the smallest power of two >= n; n <= 1 maps to 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// RoundOutcome is the committed result of one SubmitResults call.
type RoundOutcome struct {
	Round       int                   `json:"round"`
	Results     []models.MatchOutcome `json:"results"`
	Champion    string                `json:"champion,omitempty"`
	NextRound   int                   `json:"next_round,omitempty"`
	NextMatches []models.Pair         `json:"next_matches,omitempty"`
}

// Start fixes the entrant list and pairs round 1. Entrants must already be
// distinct (preprocessing disambiguates duplicates before they reach the
// engine). A single entrant is immediately the champion with no fixtures.
func (s *State) Start(entrants []string) error {
	if s.phase != PhaseAwaitingEntrants {
		return &StateError{Op: "start", Phase: s.phase}
	}
	if len(entrants) == 0 {
		return &ValidationError{Reason: "at least one entrant is required"}
	}

	s.initialPlayers = append([]string(nil), entrants...)

	if len(entrants) == 1 {
		s.winners = []string{entrants[0]}
		s.phase = PhaseChampion
		return nil
	}

	matches, byes, err := createRound(entrants, true, s.shuffle)
	if err != nil {
		return err
	}

	// Bye recipients advance without playing; fold them into the winners
	// queue here so the next pairing consumes them with the round-1 winners.
	s.byes = byes
	s.winners = append(s.winners, byes...)
	s.pendingMatches = matches
	s.phase = PhaseRoundPending
	return nil
}

// Reset discards all progress and re-pairs round 1 from the original
// entrant list. The shuffle runs again, so fixtures will differ.
func (s *State) Reset() error {
	if len(s.initialPlayers) == 0 {
		return &StateError{Op: "reset", Phase: s.phase}
	}
	entrants := s.initialPlayers
	s.round = 1
	s.phase = PhaseAwaitingEntrants
	s.initialPlayers = nil
	s.pendingMatches = nil
	s.winners = nil
	s.byes = nil
	s.history = nil
	return s.Start(entrants)
}

// SubmitResults commits scores for every pending fixture of the current
// round. The batch is atomic: any tie, or any mismatch against the pending
// fixtures, commits nothing and leaves the round pending. On success the
// round is appended to history and either a champion is declared or the next
// round is paired from the winners queue.
func (s *State) SubmitResults(results []models.MatchResult) (*RoundOutcome, error) {
	if s.phase != PhaseRoundPending {
		return nil, &StateError{Op: "submit_results", Phase: s.phase}
	}

	if err := s.matchPending(results); err != nil {
		return nil, err
	}

	// First pass: collect every tie before committing anything.
	var ties []models.Pair
	for _, res := range results {
		if res.ScoreA == res.ScoreB {
			ties = append(ties, res.Pair())
		}
	}
	if len(ties) > 0 {
		return nil, &TieError{Pairs: ties}
	}

	// Second pass: fold winners and record the round.
	outcomes := make([]models.MatchOutcome, 0, len(results))
	for _, res := range results {
		winner := res.PlayerA
		if res.ScoreB > res.ScoreA {
			winner = res.PlayerB
		}
		outcomes = append(outcomes, models.MatchOutcome{
			PlayerA: res.PlayerA,
			PlayerB: res.PlayerB,
			Winner:  winner,
		})
		s.winners = append(s.winners, winner)
	}

	completedRound := s.round
	s.history = append(s.history, models.RoundRecord{Round: completedRound, Results: outcomes})
	s.pendingMatches = nil

	outcome := &RoundOutcome{Round: completedRound, Results: outcomes}

	switch {
	case len(s.winners) == 1:
		s.phase = PhaseChampion
		outcome.Champion = s.winners[0]

	case IsPowerOfTwo(len(s.winners)):
		s.round++
		// Byes never occur past round 1, so this pairing adds no winners.
		matches, _, err := createRound(s.winners, false, s.shuffle)
		if err != nil {
			return nil, err
		}
		s.pendingMatches = matches
		s.winners = nil
		outcome.NextRound = s.round
		outcome.NextMatches = append([]models.Pair(nil), matches...)

	default:
		return nil, &InvariantError{Round: completedRound, Winners: len(s.winners)}
	}

	return outcome, nil
}

// matchPending verifies the submission covers exactly the pending fixtures,
// accepting either orientation of a pair. This catches stale forms, double
// submissions and results for fixtures that were never drawn.
func (s *State) matchPending(results []models.MatchResult) error {
	if len(results) != len(s.pendingMatches) {
		return &ValidationError{
			Reason:   "submission must cover every pending fixture exactly once",
			PoolSize: len(s.pendingMatches),
		}
	}
	used := make([]bool, len(s.pendingMatches))
	for _, res := range results {
		found := false
		for i, pending := range s.pendingMatches {
			if !used[i] && pending.SamePlayers(res.Pair()) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return &ValidationError{
				Reason: "fixture " + res.PlayerA + " vs " + res.PlayerB + " is not pending in this round",
			}
		}
	}
	return nil
}

// createRound copies and shuffles the pool, hands out byes on the initial
// round, and pairs consecutive entries. Outside the initial round the pool
// size must already be a power of two.
func createRound(pool []string, initial bool, shuffle ShuffleFunc) (matches []models.Pair, byes []string, err error) {
	if len(pool) == 0 {
		return nil, nil, &ValidationError{Reason: "cannot pair an empty pool"}
	}

	shuffled := append([]string(nil), pool...)
	shuffle(shuffled)

	if initial {
		target := NextPowerOfTwo(len(shuffled))
		byesNeeded := target - len(shuffled)
		if byesNeeded > 0 {
			byes = append([]string(nil), shuffled[:byesNeeded]...)
			shuffled = shuffled[byesNeeded:]
		}
	} else if !IsPowerOfTwo(len(shuffled)) {
		return nil, nil, &ValidationError{
			Reason:   "winners count must be a power of two from round 2 onwards",
			PoolSize: len(shuffled),
		}
	}

	// Pool length is even here: a power of two, or reduced by the exact
	// bye count.
	matches = make([]models.Pair, 0, len(shuffled)/2)
	for i := 0; i+1 < len(shuffled); i += 2 {
		matches = append(matches, models.Pair{PlayerA: shuffled[i], PlayerB: shuffled[i+1]})
	}
	return matches, byes, nil
}

func (s *State) Phase() Phase { return s.phase }

func (s *State) Round() int { return s.round }

// Champion returns the winner name once the tournament is terminal.
func (s *State) Champion() (string, bool) {
	if s.phase != PhaseChampion || len(s.winners) != 1 {
		return "", false
	}
	return s.winners[0], true
}

func (s *State) PendingMatches() []models.Pair {
	return append([]models.Pair(nil), s.pendingMatches...)
}

func (s *State) Byes() []string {
	return append([]string(nil), s.byes...)
}

func (s *State) InitialPlayers() []string {
	return append([]string(nil), s.initialPlayers...)
}

func (s *State) History() []models.RoundRecord {
	return append([]models.RoundRecord(nil), s.history...)
}
