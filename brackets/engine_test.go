package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noShuffle keeps pool order, so fixtures are fully deterministic.
func noShuffle(pool []string) {}

func newTestState() *State {
	return New(WithShuffle(noShuffle))
}

func TestIsPowerOfTwo(t *testing.T) {
	testCases := []struct {
		n        int
		expected bool
	}{
		{-4, false},
		{-1, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{4, true},
		{6, false},
		{8, true},
		{16, true},
		{1024, true},
		{1023, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, IsPowerOfTwo(tc.n), "IsPowerOfTwo(%d)", tc.n)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	testCases := []struct {
		n        int
		expected int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{8, 8},
		{9, 16},
		{17, 32},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, NextPowerOfTwo(tc.n), "NextPowerOfTwo(%d)", tc.n)
	}
}

func TestCreateRoundInitialByeCounts(t *testing.T) {
	for size := 2; size <= 9; size++ {
		pool := make([]string, size)
		for i := range pool {
			pool[i] = string(rune('A' + i))
		}

		matches, byes, err := createRound(pool, true, noShuffle)
		require.NoError(t, err, "pool size %d", size)

		target := NextPowerOfTwo(size)
		assert.Len(t, byes, target-size, "pool size %d", size)
		assert.Len(t, matches, (size-len(byes))/2, "pool size %d", size)

		// Every entrant appears exactly once across matches and byes.
		seen := make(map[string]int)
		for _, b := range byes {
			seen[b]++
		}
		for _, m := range matches {
			seen[m.PlayerA]++
			seen[m.PlayerB]++
		}
		require.Len(t, seen, size)
		for name, count := range seen {
			assert.Equal(t, 1, count, "entrant %s, pool size %d", name, size)
		}
	}
}

func TestCreateRoundNonInitialRequiresPowerOfTwo(t *testing.T) {
	matches, byes, err := createRound([]string{"A", "B", "C"}, false, noShuffle)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 3, validationErr.PoolSize)
	assert.Empty(t, matches)
	assert.Empty(t, byes)
}

func TestStartThreeEntrants(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"Ann", "Bob", "Cy"}))

	// nextPowerOfTwo(3) = 4, so exactly one bye and one fixture.
	assert.Equal(t, PhaseRoundPending, s.Phase())
	assert.Equal(t, 1, s.Round())
	assert.Equal(t, []string{"Ann"}, s.Byes())
	require.Equal(t, []models.Pair{{PlayerA: "Bob", PlayerB: "Cy"}}, s.PendingMatches())

	outcome, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "Bob", PlayerB: "Cy", ScoreA: 2, ScoreB: 1},
	})
	require.NoError(t, err)

	// Bye recipient plus the match winner make two, a power of two, so
	// round 2 pairs them immediately.
	assert.Empty(t, outcome.Champion)
	assert.Equal(t, 2, outcome.NextRound)
	require.Equal(t, []models.Pair{{PlayerA: "Ann", PlayerB: "Bob"}}, outcome.NextMatches)
	assert.Equal(t, 2, s.Round())

	outcome, err = s.SubmitResults([]models.MatchResult{
		{PlayerA: "Ann", PlayerB: "Bob", ScoreA: 0, ScoreB: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", outcome.Champion)
	assert.Equal(t, PhaseChampion, s.Phase())

	champion, ok := s.Champion()
	require.True(t, ok)
	assert.Equal(t, "Bob", champion)
	assert.Len(t, s.History(), 2)
}

func TestStartSingleEntrantIsImmediateChampion(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"Ann"}))

	assert.Equal(t, PhaseChampion, s.Phase())
	assert.Empty(t, s.PendingMatches())

	champion, ok := s.Champion()
	require.True(t, ok)
	assert.Equal(t, "Ann", champion)
}

func TestStartValidations(t *testing.T) {
	s := newTestState()

	var validationErr *ValidationError
	require.ErrorAs(t, s.Start(nil), &validationErr)

	require.NoError(t, s.Start([]string{"Ann", "Bob"}))

	var stateErr *StateError
	require.ErrorAs(t, s.Start([]string{"Cy", "Di"}), &stateErr)
	assert.Equal(t, "start", stateErr.Op)
}

func TestSubmitBeforeStart(t *testing.T) {
	s := newTestState()

	_, err := s.SubmitResults([]models.MatchResult{{PlayerA: "Ann", PlayerB: "Bob", ScoreA: 1, ScoreB: 0}})

	var stateErr *StateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, PhaseAwaitingEntrants, stateErr.Phase)
}

func TestRoundTripAdvanceHalvesWinners(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))
	require.Len(t, s.PendingMatches(), 2)

	outcome, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 3, ScoreB: 0},
		{PlayerA: "C", PlayerB: "D", ScoreA: 2, ScoreB: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Round())
	require.Len(t, outcome.NextMatches, 1)
	assert.Equal(t, models.Pair{PlayerA: "A", PlayerB: "C"}, outcome.NextMatches[0])
}

func TestSubmitTieIsBatchAtomic(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))
	pendingBefore := s.PendingMatches()

	_, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 3, ScoreB: 0},
		{PlayerA: "C", PlayerB: "D", ScoreA: 2, ScoreB: 2},
	})

	var tieErr *TieError
	require.ErrorAs(t, err, &tieErr)
	require.Equal(t, []models.Pair{{PlayerA: "C", PlayerB: "D"}}, tieErr.Pairs)

	// Nothing committed: fixtures, round and history are untouched.
	assert.Equal(t, pendingBefore, s.PendingMatches())
	assert.Equal(t, 1, s.Round())
	assert.Empty(t, s.History())

	// Correcting the tie commits the whole batch.
	outcome, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 3, ScoreB: 0},
		{PlayerA: "C", PlayerB: "D", ScoreA: 2, ScoreB: 4},
	})
	require.NoError(t, err)
	assert.Len(t, outcome.Results, 2)
}

func TestSubmitReportsEveryTie(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	_, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1, ScoreB: 1},
		{PlayerA: "C", PlayerB: "D", ScoreA: 2, ScoreB: 2},
	})

	var tieErr *TieError
	require.ErrorAs(t, err, &tieErr)
	assert.Len(t, tieErr.Pairs, 2)
}

func TestSubmitMustCoverPendingFixtures(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	var validationErr *ValidationError

	// Too few results.
	_, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1, ScoreB: 0},
	})
	require.ErrorAs(t, err, &validationErr)

	// Unknown fixture.
	_, err = s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1, ScoreB: 0},
		{PlayerA: "A", PlayerB: "D", ScoreA: 1, ScoreB: 0},
	})
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, s.History())
}

func TestSubmitAcceptsSwappedOrientation(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	outcome, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "B", PlayerB: "A", ScoreA: 5, ScoreB: 1},
		{PlayerA: "D", PlayerB: "C", ScoreA: 0, ScoreB: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "B", outcome.Results[0].Winner)
	assert.Equal(t, "C", outcome.Results[1].Winner)
}

func TestSubmitDetectsCorruptedWinners(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	// Simulate external corruption of the winners queue.
	s.winners = append(s.winners, "Ghost")

	_, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1, ScoreB: 0},
		{PlayerA: "C", PlayerB: "D", ScoreA: 1, ScoreB: 0},
	})

	var invariantErr *InvariantError
	require.ErrorAs(t, err, &invariantErr)
	assert.Equal(t, 3, invariantErr.Winners)
}

func TestReset(t *testing.T) {
	s := newTestState()
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	_, err := s.SubmitResults([]models.MatchResult{
		{PlayerA: "A", PlayerB: "B", ScoreA: 1, ScoreB: 0},
		{PlayerA: "C", PlayerB: "D", ScoreA: 1, ScoreB: 0},
	})
	require.NoError(t, err)
	require.NotEmpty(t, s.History())

	require.NoError(t, s.Reset())

	assert.Equal(t, 1, s.Round())
	assert.Equal(t, PhaseRoundPending, s.Phase())
	assert.Empty(t, s.History())
	assert.Len(t, s.PendingMatches(), 2)
	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, s.InitialPlayers())
}

func TestResetBeforeStart(t *testing.T) {
	s := newTestState()

	var stateErr *StateError
	require.ErrorAs(t, s.Reset(), &stateErr)
}

func TestInjectedShuffleControlsPairing(t *testing.T) {
	reverse := func(pool []string) {
		for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
			pool[i], pool[j] = pool[j], pool[i]
		}
	}

	s := New(WithShuffle(reverse))
	require.NoError(t, s.Start([]string{"A", "B", "C", "D"}))

	require.Equal(t, []models.Pair{
		{PlayerA: "D", PlayerB: "C"},
		{PlayerA: "B", PlayerB: "A"},
	}, s.PendingMatches())
}

func TestStartDoesNotMutateCallerSlice(t *testing.T) {
	reverse := func(pool []string) {
		for i, j := 0, len(pool)-1; i < j; i, j = i+1, j-1 {
			pool[i], pool[j] = pool[j], pool[i]
		}
	}

	entrants := []string{"A", "B", "C", "D"}
	s := New(WithShuffle(reverse))
	require.NoError(t, s.Start(entrants))

	assert.Equal(t, []string{"A", "B", "C", "D"}, entrants)
	assert.Equal(t, []string{"A", "B", "C", "D"}, s.InitialPlayers())
}
