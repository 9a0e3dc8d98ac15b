package models

// Node is one table in a SchemaGraph.
type Node struct {
	ID          string `json:"id"`
	ColumnCount int    `json:"columns"`
	PrimaryKey  string `json:"primary_key,omitempty"`
}

// Edge is one relationship in a SchemaGraph. Edges are directed from the
// foreign-key column's table to the referenced table.
type Edge struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	SourceColumn string  `json:"source_column"`
	TargetColumn string  `json:"target_column"`
	Confidence   float64 `json:"confidence"`
	Basis        string  `json:"basis"`
	Inconsistent bool    `json:"inconsistent,omitempty"`
}

// Key returns the identity of the edge. The graph holds at most one edge per
// key; declared relationships win collisions against inferred ones.
func (e Edge) Key() EdgeKey {
	return EdgeKey{
		SourceTable:  e.Source,
		SourceColumn: e.SourceColumn,
		TargetTable:  e.Target,
		TargetColumn: e.TargetColumn,
	}
}

// EdgeKey identifies an edge by its endpoints.
type EdgeKey struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// SchemaGraph is the deduplicated directed multigraph of tables and
// relationships handed to export and visualization.
type SchemaGraph struct {
	Database string `json:"database"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges"`
}

// Node returns the node with the given id, or nil.
func (g *SchemaGraph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
