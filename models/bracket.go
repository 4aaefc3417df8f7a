package models

// Pair is a single unresolved fixture between two entrants.
type Pair struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

// SamePlayers reports whether both pairs contain the same two entrants,
// regardless of orientation.
func (p Pair) SamePlayers(o Pair) bool {
	return (p.PlayerA == o.PlayerA && p.PlayerB == o.PlayerB) ||
		(p.PlayerA == o.PlayerB && p.PlayerB == o.PlayerA)
}

// MatchResult is one submitted score line for a pending fixture.
type MatchResult struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	ScoreA  int    `json:"score_a"`
	ScoreB  int    `json:"score_b"`
}

// Pair returns the fixture identity of the result.
func (r MatchResult) Pair() Pair {
	return Pair{PlayerA: r.PlayerA, PlayerB: r.PlayerB}
}

// MatchOutcome is a decided fixture as recorded in tournament history.
type MatchOutcome struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	Winner  string `json:"winner"`
}

// RoundRecord is the permanent record of one completed round. Records are
// append-only: once a round is committed its outcomes never change.
type RoundRecord struct {
	Round   int            `json:"round"`
	Results []MatchOutcome `json:"results"`
}
