package models

// SchemaDescription is the connector-agnostic wire format produced by the
// extraction layer (and accepted from files): a database name plus tables
// with columns, primary key and declared foreign keys.
type SchemaDescription struct {
	Database string             `json:"database" yaml:"database"`
	Tables   []TableDescription `json:"tables" yaml:"tables"`
}

// TableDescription describes one table in a SchemaDescription.
type TableDescription struct {
	Name        string               `json:"name" yaml:"name"`
	Columns     []ColumnDescription  `json:"columns" yaml:"columns"`
	PrimaryKey  string               `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
	ForeignKeys []ForeignKeyedColumn `json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// ColumnDescription describes one column in a TableDescription.
type ColumnDescription struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	Nullable     bool   `json:"nullable" yaml:"nullable"`
	IsPrimaryKey bool   `json:"is_primary_key" yaml:"is_primary_key"`
}

// ForeignKeyedColumn describes one declared foreign key in a TableDescription.
type ForeignKeyedColumn struct {
	Column           string `json:"column" yaml:"column"`
	ReferencesTable  string `json:"references_table" yaml:"references_table"`
	ReferencesColumn string `json:"references_column" yaml:"references_column"`
}

// FromDescription validates a SchemaDescription and builds the SchemaModel
// used by inference and graph building.
func FromDescription(desc SchemaDescription) (*SchemaModel, error) {
	tables := make([]Table, len(desc.Tables))
	for i, td := range desc.Tables {
		table := Table{
			Name:       td.Name,
			PrimaryKey: td.PrimaryKey,
			Columns:    make([]Column, len(td.Columns)),
		}
		for j, cd := range td.Columns {
			table.Columns[j] = Column{
				Name:         cd.Name,
				DataType:     cd.Type,
				Nullable:     cd.Nullable,
				IsPrimaryKey: cd.IsPrimaryKey,
			}
		}
		for _, fk := range td.ForeignKeys {
			table.ForeignKeys = append(table.ForeignKeys, ForeignKey{
				Column:           fk.Column,
				ReferencesTable:  fk.ReferencesTable,
				ReferencesColumn: fk.ReferencesColumn,
			})
		}
		tables[i] = table
	}
	return NewSchemaModel(desc.Database, tables)
}
