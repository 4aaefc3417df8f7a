package brackets

import (
	"strings"
	"testing"

	"github.com/Dosada05/bracket-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePlayerHistory() ([]string, []models.RoundRecord) {
	initial := []string{"Ann", "Bob", "Cy"}
	history := []models.RoundRecord{
		{Round: 1, Results: []models.MatchOutcome{
			{PlayerA: "Bob", PlayerB: "Cy", Winner: "Bob"},
		}},
		{Round: 2, Results: []models.MatchOutcome{
			{PlayerA: "Ann", PlayerB: "Bob", Winner: "Bob"},
		}},
	}
	return initial, history
}

func TestBuildGraph(t *testing.T) {
	initial, history := threePlayerHistory()

	g := BuildGraph(initial, history)

	// Three entrant leaves plus one match node per recorded fixture.
	require.Len(t, g.Nodes, 5)
	require.Len(t, g.Edges, 6)

	byID := make(map[string]models.GraphNode)
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, models.GraphNodePlayer, byID["Ann"].Kind)
	assert.Equal(t, models.GraphNodeMatch, byID["R1M1"].Kind)
	assert.Equal(t, models.GraphNodeMatch, byID["R2M1"].Kind)

	assert.Contains(t, g.Edges, models.GraphEdge{From: "Bob", To: "R1M1"})
	assert.Contains(t, g.Edges, models.GraphEdge{From: "Cy", To: "R1M1"})
	assert.Contains(t, g.Edges, models.GraphEdge{From: "R1M1", To: "Bob"})
	assert.Contains(t, g.Edges, models.GraphEdge{From: "R2M1", To: "Bob"})
}

func TestBuildGraphNodeIDsAreUnique(t *testing.T) {
	initial, history := threePlayerHistory()

	g := BuildGraph(initial, history)

	seen := make(map[string]bool)
	for _, n := range g.Nodes {
		assert.False(t, seen[n.ID], "duplicate node id %q", n.ID)
		seen[n.ID] = true
	}
}

func TestBuildGraphIsDeterministic(t *testing.T) {
	initial, history := threePlayerHistory()

	first := BuildGraph(initial, history)
	second := BuildGraph(initial, history)

	assert.Equal(t, first, second)
}

func TestBuildGraphEmptyHistory(t *testing.T) {
	g := BuildGraph([]string{"Ann", "Bob"}, nil)

	assert.Len(t, g.Nodes, 2)
	assert.Empty(t, g.Edges)
}

func TestRenderDOT(t *testing.T) {
	initial, history := threePlayerHistory()

	out := RenderDOT(BuildGraph(initial, history))

	assert.True(t, strings.HasPrefix(out, "digraph"))
	assert.Contains(t, out, "R1M1")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "box")
}
