package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/relgraph/relgraph/pkg/models"
)

const visPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Schema Graph: {{.Database}}</title>
  <script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
  <style>
    body { font-family: sans-serif; margin: 0; }
    #header { padding: 10px 16px; background: #2b3a55; color: #fff; }
    #network { width: 100vw; height: calc(100vh - 48px); }
  </style>
</head>
<body>
  <div id="header">Schema graph for <strong>{{.Database}}</strong> ({{.NodeCount}} tables, {{.EdgeCount}} relationships)</div>
  <div id="network"></div>
  <script>
    const nodes = new vis.DataSet({{.Nodes}});
    const edges = new vis.DataSet({{.Edges}});
    const container = document.getElementById("network");
    const options = {
      nodes: { shape: "box", margin: 8, color: { background: "#dbe7ff", border: "#2b3a55" } },
      edges: { font: { size: 10, align: "middle" }, smooth: { type: "dynamic" } },
      physics: { solver: "forceAtlas2Based", stabilization: { iterations: 200 } },
    };
    new vis.Network(container, { nodes, edges }, options);
  </script>
</body>
</html>
`

var visPage = template.Must(template.New("vis").Parse(visPageTemplate))

type visPageData struct {
	Database  string
	NodeCount int
	EdgeCount int
	Nodes     template.JS
	Edges     template.JS
}

type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

type visEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Label  string `json:"label"`
	Arrows string `json:"arrows"`
	Dashes bool   `json:"dashes,omitempty"`
}

// WriteGraphHTML writes a self-contained interactive graph page rendered with
// vis-network from a CDN. Inferred edges show the source column and
// confidence; inconsistent declared edges are dashed.
func WriteGraphHTML(w io.Writer, graph *models.SchemaGraph) error {
	nodes := make([]visNode, 0, len(graph.Nodes))
	for _, node := range graph.Nodes {
		title := fmt.Sprintf("%d columns", node.ColumnCount)
		if node.PrimaryKey != "" {
			title = fmt.Sprintf("PK: %s, %s", node.PrimaryKey, title)
		}
		nodes = append(nodes, visNode{ID: node.ID, Label: node.ID, Title: title})
	}

	edges := make([]visEdge, 0, len(graph.Edges))
	for _, edge := range graph.Edges {
		edges = append(edges, visEdge{
			From:   edge.Source,
			To:     edge.Target,
			Label:  fmt.Sprintf("%s (%.2f)", edge.SourceColumn, edge.Confidence),
			Arrows: "to",
			Dashes: edge.Inconsistent,
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("marshal nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("marshal edges: %w", err)
	}

	data := visPageData{
		Database:  graph.Database,
		NodeCount: len(graph.Nodes),
		EdgeCount: len(graph.Edges),
		Nodes:     template.JS(nodesJSON),
		Edges:     template.JS(edgesJSON),
	}
	if err := visPage.Execute(w, data); err != nil {
		return fmt.Errorf("render graph html: %w", err)
	}
	return nil
}
