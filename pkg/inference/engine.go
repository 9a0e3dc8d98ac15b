package inference

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/models"
)

// Engine infers foreign-key relationships from a schema. Declared constraints
// are seeded first and are never displaced by heuristic matches; remaining
// non-key columns are matched against every other table's primary key through
// the confidence scorer.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an inference engine. If logger is nil, a no-op logger is
// used.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("inference")}
}

// Infer resolves relationships for every table in the schema. The returned
// map is freshly allocated per call and fully deterministic: identical
// schemas yield identical content and ordering. Warnings report declared
// foreign keys whose target table or column is missing; those edges are still
// emitted with Inconsistent set.
//
// Infer never fails. The worst case for a table is an empty foreign-key list.
func (e *Engine) Infer(schema *models.SchemaModel) (models.RelationshipMap, []models.Warning) {
	rels := make(models.RelationshipMap, len(schema.Tables))
	var warnings []models.Warning

	names := schema.TableNames()
	for _, name := range names {
		rels[name] = &models.TableRelationships{
			PrimaryKey:  schema.Table(name).PrimaryKey,
			ForeignKeys: []models.Relationship{},
		}
	}

	// Seed declared constraints. A declared FK owns its source column: that
	// column is excluded from heuristic matching below.
	declared := make(map[string]bool)
	declaredCount := 0
	for _, name := range names {
		table := schema.Table(name)
		for _, fk := range table.ForeignKeys {
			rel := models.Relationship{
				SourceTable:  name,
				SourceColumn: fk.Column,
				TargetTable:  fk.ReferencesTable,
				TargetColumn: fk.ReferencesColumn,
				Confidence:   1.0,
				Basis:        models.BasisDeclared,
			}
			if w, ok := checkDeclaredTarget(schema, name, fk); !ok {
				rel.Inconsistent = true
				warnings = append(warnings, w)
			}
			rels[name].ForeignKeys = append(rels[name].ForeignKeys, rel)
			declared[name+"\x00"+fk.Column] = true
			declaredCount++
		}
	}

	// Heuristic pass over every non-key, non-declared column.
	inferredCount := 0
	for _, name := range names {
		table := schema.Table(name)
		for _, col := range table.Columns {
			if col.IsPrimaryKey || col.Name == table.PrimaryKey {
				continue
			}
			if declared[name+"\x00"+col.Name] {
				continue
			}

			if best, ok := e.bestCandidate(schema, names, name, col); ok {
				rels[name].ForeignKeys = append(rels[name].ForeignKeys, best)
				inferredCount++
			}
		}
	}

	// Reproducible ordering: per-table foreign keys sorted by source column,
	// then by target reference.
	for _, entry := range rels {
		fks := entry.ForeignKeys
		sort.Slice(fks, func(i, j int) bool {
			if fks[i].SourceColumn != fks[j].SourceColumn {
				return fks[i].SourceColumn < fks[j].SourceColumn
			}
			return fks[i].References() < fks[j].References()
		})
	}

	e.logger.Info("Relationship inference complete",
		zap.String("database", schema.Database),
		zap.Int("tables", len(names)),
		zap.Int("declared", declaredCount),
		zap.Int("inferred", inferredCount),
		zap.Int("warnings", len(warnings)))

	return rels, warnings
}

// bestCandidate scores the column against every table and picks the winner.
// Ties break by shortest target table name, then lexicographically, so the
// choice never depends on iteration order.
func (e *Engine) bestCandidate(schema *models.SchemaModel, names []string, sourceTable string, col models.Column) (models.Relationship, bool) {
	var (
		found     bool
		bestScore float64
		bestTable string
		bestBasis string
	)

	for _, targetName := range names {
		target := schema.Table(targetName)
		score, basis, ok := Score(col, sourceTable, target)
		if !ok {
			continue
		}

		better := !found || score > bestScore
		if found && score == bestScore {
			if len(targetName) != len(bestTable) {
				better = len(targetName) < len(bestTable)
			} else {
				better = targetName < bestTable
			}
		}
		if better {
			found = true
			bestScore = score
			bestTable = targetName
			bestBasis = basis
		}
	}

	if !found {
		return models.Relationship{}, false
	}

	target := schema.Table(bestTable)
	e.logger.Debug("Inferred relationship",
		zap.String("source", sourceTable+"."+col.Name),
		zap.String("target", bestTable+"."+target.PrimaryKey),
		zap.Float64("confidence", bestScore),
		zap.String("basis", bestBasis))

	return models.Relationship{
		SourceTable:  sourceTable,
		SourceColumn: col.Name,
		TargetTable:  bestTable,
		TargetColumn: target.PrimaryKey,
		Confidence:   bestScore,
		Basis:        bestBasis,
	}, true
}

// checkDeclaredTarget verifies that a declared foreign key's target exists in
// the schema.
func checkDeclaredTarget(schema *models.SchemaModel, sourceTable string, fk models.ForeignKey) (models.Warning, bool) {
	target := schema.Table(fk.ReferencesTable)
	if target == nil {
		return models.Warning{
			Table:   sourceTable,
			Column:  fk.Column,
			Message: fmt.Sprintf("declared foreign key references missing table %q", fk.ReferencesTable),
		}, false
	}
	if target.Column(fk.ReferencesColumn) == nil {
		return models.Warning{
			Table:   sourceTable,
			Column:  fk.Column,
			Message: fmt.Sprintf("declared foreign key references missing column %q.%q", fk.ReferencesTable, fk.ReferencesColumn),
		}, false
	}
	return models.Warning{}, true
}
