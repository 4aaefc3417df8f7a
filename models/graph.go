package models

type GraphNodeKind string

const (
	GraphNodePlayer GraphNodeKind = "player"
	GraphNodeMatch  GraphNodeKind = "match"
)

// GraphNode is one vertex of the bracket diagram. IDs are unique within a
// graph: entrant names for player nodes, "R{round}M{order}" for match nodes.
type GraphNode struct {
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Kind  GraphNodeKind `json:"kind"`
}

// GraphEdge is a directed edge between two node IDs.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph describes the bracket as a directed acyclic diagram for rendering.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
