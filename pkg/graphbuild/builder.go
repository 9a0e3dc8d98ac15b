package graphbuild

import (
	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/models"
)

// Builder converts a schema and its resolved relationships into a
// SchemaGraph. It holds no state between calls; every Build produces a
// finished graph derived only from its arguments.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a graph builder. If logger is nil, a no-op logger is
// used.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger.Named("graph")}
}

// Build creates the graph: one node per table (attributed with column count
// and primary key) and one edge per relationship, deduplicated on
// (source table, source column, target table, target column). When a declared
// and an inferred relationship collide on the same key, the declared edge
// wins and the inferred one is dropped silently.
func (b *Builder) Build(schema *models.SchemaModel, relationships models.RelationshipMap) *models.SchemaGraph {
	graph := &models.SchemaGraph{Database: schema.Database}

	names := schema.TableNames()
	for _, name := range names {
		table := schema.Table(name)
		graph.Nodes = append(graph.Nodes, models.Node{
			ID:          name,
			ColumnCount: len(table.Columns),
			PrimaryKey:  table.PrimaryKey,
		})
	}

	seen := make(map[models.EdgeKey]int)
	for _, name := range names {
		entry := relationships[name]
		if entry == nil {
			continue
		}
		for _, rel := range entry.ForeignKeys {
			edge := models.Edge{
				Source:       rel.SourceTable,
				Target:       rel.TargetTable,
				SourceColumn: rel.SourceColumn,
				TargetColumn: rel.TargetColumn,
				Confidence:   rel.Confidence,
				Basis:        rel.Basis,
				Inconsistent: rel.Inconsistent,
			}

			if idx, exists := seen[edge.Key()]; exists {
				if edge.Basis == models.BasisDeclared && graph.Edges[idx].Basis != models.BasisDeclared {
					graph.Edges[idx] = edge
				}
				continue
			}
			seen[edge.Key()] = len(graph.Edges)
			graph.Edges = append(graph.Edges, edge)
		}
	}

	b.logger.Debug("Schema graph built",
		zap.String("database", schema.Database),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)))

	return graph
}
