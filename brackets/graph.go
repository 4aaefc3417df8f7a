package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-system/models"
	"github.com/emicklei/dot"
)

// BuildGraph projects the accumulated history onto a directed node/edge
// graph for the bracket renderer. One box node per initial entrant, one
// match node per recorded fixture ("R{round}M{order}"), and edges
// playerA -> match, playerB -> match, match -> winner.
//
// The projection is read-only and deterministic: the same inputs always
// yield the same graph. Node identity relies on entrant names and match IDs
// being mutually distinct, which upstream preprocessing guarantees.
func BuildGraph(initialPlayers []string, history []models.RoundRecord) models.Graph {
	var g models.Graph
	seen := make(map[string]bool, len(initialPlayers))

	addPlayer := func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		g.Nodes = append(g.Nodes, models.GraphNode{ID: name, Label: name, Kind: models.GraphNodePlayer})
	}

	for _, name := range initialPlayers {
		addPlayer(name)
	}

	for _, record := range history {
		for idx, result := range record.Results {
			matchID := fmt.Sprintf("R%dM%d", record.Round, idx+1)
			g.Nodes = append(g.Nodes, models.GraphNode{
				ID:    matchID,
				Label: fmt.Sprintf("Round %d, Match %d\n%s vs %s", record.Round, idx+1, result.PlayerA, result.PlayerB),
				Kind:  models.GraphNodeMatch,
			})

			// Names outside the initial list should not occur, but a missing
			// node would silently merge edges, so materialize them anyway.
			addPlayer(result.PlayerA)
			addPlayer(result.PlayerB)
			addPlayer(result.Winner)

			g.Edges = append(g.Edges,
				models.GraphEdge{From: result.PlayerA, To: matchID},
				models.GraphEdge{From: result.PlayerB, To: matchID},
				models.GraphEdge{From: matchID, To: result.Winner},
			)
		}
	}
	return g
}

// RenderDOT serializes a bracket graph in Graphviz DOT form, left-to-right,
// box-shaped entrant nodes and elliptic match nodes.
func RenderDOT(g models.Graph) string {
	dg := dot.NewGraph(dot.Directed)
	dg.Attr("rankdir", "LR")

	nodes := make(map[string]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		dn := dg.Node(n.ID).Label(n.Label)
		if n.Kind == models.GraphNodePlayer {
			dn.Attr("shape", "box")
		}
		nodes[n.ID] = dn
	}
	for _, e := range g.Edges {
		dg.Edge(nodes[e.From], nodes[e.To])
	}
	return dg.String()
}
