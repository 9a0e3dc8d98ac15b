package models

import (
	"fmt"
	"sort"

	"github.com/relgraph/relgraph/pkg/apperrors"
)

// Column represents a table column in a normalized schema.
type Column struct {
	Name         string    `json:"name" yaml:"name"`
	DataType     string    `json:"type" yaml:"type"`
	TypeClass    TypeClass `json:"type_class" yaml:"type_class"`
	Nullable     bool      `json:"nullable" yaml:"nullable"`
	IsPrimaryKey bool      `json:"is_primary_key" yaml:"is_primary_key"`
}

// ForeignKey is a foreign key constraint declared in the source database.
type ForeignKey struct {
	Column           string `json:"column" yaml:"column"`
	ReferencesTable  string `json:"references_table" yaml:"references_table"`
	ReferencesColumn string `json:"references_column" yaml:"references_column"`
}

// Table represents a database table with its ordered columns, designated
// primary key (empty when the table has none) and declared foreign keys.
type Table struct {
	Name        string       `json:"name" yaml:"name"`
	Columns     []Column     `json:"columns" yaml:"columns"`
	PrimaryKey  string       `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// Column returns the named column, or nil if the table has no such column.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// SchemaModel is the normalized, validated representation of one extracted
// database schema. It is built once per extraction and treated as immutable
// for the duration of an inference pass.
type SchemaModel struct {
	Database string
	Tables   map[string]*Table
}

// NewSchemaModel validates tables and assembles a SchemaModel. Violations of
// the model invariants (duplicate table or column names, a column missing a
// name or type) return an error wrapping apperrors.ErrInvalidSchema.
//
// A table whose PrimaryKey is unset gets it derived from the first column
// flagged as primary key, matching how single-column keys are reported by the
// catalog extractors. Column type classes are always derived from the
// declared data type.
func NewSchemaModel(database string, tables []Table) (*SchemaModel, error) {
	model := &SchemaModel{
		Database: database,
		Tables:   make(map[string]*Table, len(tables)),
	}

	for i := range tables {
		table := tables[i]
		if table.Name == "" {
			return nil, fmt.Errorf("%w: table %d has no name", apperrors.ErrInvalidSchema, i)
		}
		if _, exists := model.Tables[table.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate table %q", apperrors.ErrInvalidSchema, table.Name)
		}

		seen := make(map[string]bool, len(table.Columns))
		for j := range table.Columns {
			col := &table.Columns[j]
			if col.Name == "" {
				return nil, fmt.Errorf("%w: table %q column %d has no name", apperrors.ErrInvalidSchema, table.Name, j)
			}
			if col.DataType == "" {
				return nil, fmt.Errorf("%w: table %q column %q has no type", apperrors.ErrInvalidSchema, table.Name, col.Name)
			}
			if seen[col.Name] {
				return nil, fmt.Errorf("%w: table %q has duplicate column %q", apperrors.ErrInvalidSchema, table.Name, col.Name)
			}
			seen[col.Name] = true
			col.TypeClass = ClassifyType(col.DataType)

			if table.PrimaryKey == "" && col.IsPrimaryKey {
				table.PrimaryKey = col.Name
			}
		}

		if table.PrimaryKey != "" && table.Column(table.PrimaryKey) == nil {
			return nil, fmt.Errorf("%w: table %q primary key column %q not found",
				apperrors.ErrInvalidSchema, table.Name, table.PrimaryKey)
		}

		model.Tables[table.Name] = &table
	}

	return model, nil
}

// TableNames returns all table names in sorted order. Inference and graph
// building iterate through this to keep output independent of map order.
func (m *SchemaModel) TableNames() []string {
	names := make([]string, 0, len(m.Tables))
	for name := range m.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the named table, or nil if the schema has no such table.
func (m *SchemaModel) Table(name string) *Table {
	return m.Tables[name]
}
