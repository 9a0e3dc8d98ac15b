package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/relgraph/relgraph/pkg/models"
)

// nodeLinkDocument is the node-link JSON layout understood by common graph
// tooling (networkx, d3, and friends).
type nodeLinkDocument struct {
	Directed   bool           `json:"directed"`
	Multigraph bool           `json:"multigraph"`
	Graph      map[string]any `json:"graph"`
	Nodes      []nodeLinkNode `json:"nodes"`
	Links      []nodeLinkEdge `json:"links"`
}

type nodeLinkNode struct {
	ID         string `json:"id"`
	Columns    int    `json:"columns"`
	PrimaryKey string `json:"primary_key,omitempty"`
}

type nodeLinkEdge struct {
	Source       string  `json:"source"`
	Target       string  `json:"target"`
	SourceColumn string  `json:"source_column"`
	TargetColumn string  `json:"target_column"`
	Confidence   float64 `json:"confidence"`
	Basis        string  `json:"basis"`
	Inconsistent bool    `json:"inconsistent,omitempty"`
}

// WriteGraphJSON writes the graph in node-link form. Node and edge order is
// taken from the graph as built, which is already deterministic.
func WriteGraphJSON(w io.Writer, graph *models.SchemaGraph) error {
	doc := nodeLinkDocument{
		Directed:   true,
		Multigraph: true,
		Graph:      map[string]any{"database": graph.Database},
		Nodes:      make([]nodeLinkNode, 0, len(graph.Nodes)),
		Links:      make([]nodeLinkEdge, 0, len(graph.Edges)),
	}

	for _, node := range graph.Nodes {
		doc.Nodes = append(doc.Nodes, nodeLinkNode{
			ID:         node.ID,
			Columns:    node.ColumnCount,
			PrimaryKey: node.PrimaryKey,
		})
	}
	for _, edge := range graph.Edges {
		doc.Links = append(doc.Links, nodeLinkEdge{
			Source:       edge.Source,
			Target:       edge.Target,
			SourceColumn: edge.SourceColumn,
			TargetColumn: edge.TargetColumn,
			Confidence:   edge.Confidence,
			Basis:        edge.Basis,
			Inconsistent: edge.Inconsistent,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graph json: %w", err)
	}
	return nil
}
