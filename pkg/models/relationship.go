package models

import "fmt"

// Relationship basis values. The basis records why a relationship was
// emitted: taken from a declared constraint or from one of the heuristic
// matching tiers.
const (
	BasisDeclared     = "declared"
	BasisExactMatch   = "exact_match"
	BasisPatternMatch = "pattern_match"
	BasisHierarchical = "hierarchical"
)

// ValidBases contains all valid relationship basis values.
var ValidBases = []string{
	BasisDeclared,
	BasisExactMatch,
	BasisPatternMatch,
	BasisHierarchical,
}

// IsValidBasis checks if the given basis is valid.
func IsValidBasis(b string) bool {
	for _, v := range ValidBases {
		if v == b {
			return true
		}
	}
	return false
}

// Relationship is one resolved foreign-key relationship, declared or
// inferred. Confidence is in [0.0, 1.0]; exactly 1.0 is reserved for
// BasisDeclared.
type Relationship struct {
	SourceTable  string  `json:"source_table"`
	SourceColumn string  `json:"source_column"`
	TargetTable  string  `json:"target_table"`
	TargetColumn string  `json:"target_column"`
	Confidence   float64 `json:"confidence"`
	Basis        string  `json:"basis"`
	// Inconsistent marks a declared foreign key whose target table or column
	// does not exist in the schema. The edge is still emitted; callers decide
	// how to surface it.
	Inconsistent bool `json:"inconsistent,omitempty"`
}

// References returns the "table.column" form of the relationship target.
func (r Relationship) References() string {
	return r.TargetTable + "." + r.TargetColumn
}

// TableRelationships holds the resolved primary key and the ordered
// foreign-key relationships for one table.
type TableRelationships struct {
	PrimaryKey  string         `json:"primary_key,omitempty"`
	ForeignKeys []Relationship `json:"foreign_keys"`
}

// RelationshipMap maps table names to their resolved relationships. It is
// produced fresh by every inference pass; no state is shared across passes.
type RelationshipMap map[string]*TableRelationships

// Warning flags a non-fatal inconsistency found during inference, currently
// only declared foreign keys that reference a missing table or column.
type Warning struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s.%s: %s", w.Table, w.Column, w.Message)
}
