// Package export serializes inference results for downstream consumers:
// a YAML relationship map, a node-link JSON graph, and an HTML visualization.
package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/relgraph/relgraph/pkg/models"
)

type relationshipEntry struct {
	PrimaryKey  *string           `yaml:"primary_key"`
	ForeignKeys []foreignKeyEntry `yaml:"foreign_keys"`
}

type foreignKeyEntry struct {
	Column       string  `yaml:"column"`
	References   string  `yaml:"references"`
	Confidence   float64 `yaml:"confidence"`
	Basis        string  `yaml:"basis"`
	Inconsistent bool    `yaml:"inconsistent,omitempty"`
}

// WriteRelationshipsYAML writes the relationship map keyed by table name.
// A table with no primary key serializes primary_key as null. Map keys are
// emitted in sorted order by the YAML encoder, so output is reproducible.
func WriteRelationshipsYAML(w io.Writer, relationships models.RelationshipMap) error {
	doc := make(map[string]relationshipEntry, len(relationships))
	for table, rels := range relationships {
		entry := relationshipEntry{
			ForeignKeys: make([]foreignKeyEntry, 0, len(rels.ForeignKeys)),
		}
		if rels.PrimaryKey != "" {
			pk := rels.PrimaryKey
			entry.PrimaryKey = &pk
		}
		for _, fk := range rels.ForeignKeys {
			entry.ForeignKeys = append(entry.ForeignKeys, foreignKeyEntry{
				Column:       fk.SourceColumn,
				References:   fk.References(),
				Confidence:   fk.Confidence,
				Basis:        fk.Basis,
				Inconsistent: fk.Inconsistent,
			})
		}
		doc[table] = entry
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode relationships yaml: %w", err)
	}
	return enc.Close()
}
