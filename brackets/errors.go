package brackets

import (
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-system/models"
)

// ValidationError reports a pairing precondition violation: the pool handed
// to the engine cannot be paired (empty, or not a power of two outside the
// initial round), or a submission does not line up with the pending fixtures.
// It is never retried automatically; the operator has to correct the input.
type ValidationError struct {
	Reason   string
	PoolSize int
}

func (e *ValidationError) Error() string {
	if e.PoolSize > 0 {
		return fmt.Sprintf("bracket validation failed: %s (pool size %d)", e.Reason, e.PoolSize)
	}
	return fmt.Sprintf("bracket validation failed: %s", e.Reason)
}

// TieError reports every submitted fixture with equal scores. Submissions are
// atomic: if any fixture tied, nothing from the batch was committed and the
// round is still pending.
type TieError struct {
	Pairs []models.Pair
}

func (e *TieError) Error() string {
	descs := make([]string, len(e.Pairs))
	for i, p := range e.Pairs {
		descs[i] = p.PlayerA + " vs " + p.PlayerB
	}
	return "tie detected: " + strings.Join(descs, ", ")
}

// StateError reports an operation invoked in a phase that does not support
// it, e.g. submitting results before any fixtures exist.
type StateError struct {
	Op    string
	Phase Phase
}

func (e *StateError) Error() string {
	return fmt.Sprintf("operation %q is not allowed in phase %q", e.Op, e.Phase)
}

// InvariantError means the winners count after a clean round is not a power
// of two. Every completed round yields a power-of-two winner count by
// construction, so this can only happen if the session state was corrupted.
// The engine never guesses a resolution; the session is considered dead.
type InvariantError struct {
	Round   int
	Winners int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("corrupted bracket state: %d winners after round %d is not a power of two", e.Winners, e.Round)
}

// ParseError reports a single pasted result row that does not match the
// "<p1> vs <p2> = <s1>-<s2>" shape. Rows are independent: one bad row never
// blocks parsing of the rest.
type ParseError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse line %d %q: %s", e.Line, e.Text, e.Reason)
}
