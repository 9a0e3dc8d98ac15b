package datasource

import "context"

// SchemaExtractor reads catalog metadata from a live database. Each
// implementation owns its connection and must be closed when done. Extractors
// only read catalogs; they never touch table data.
type SchemaExtractor interface {
	// DiscoverTables returns all user tables (excludes system schemas),
	// ordered by name.
	DiscoverTables(ctx context.Context) ([]TableMetadata, error)

	// DiscoverColumns returns the columns of one table in ordinal order.
	DiscoverColumns(ctx context.Context, tableName string) ([]ColumnMetadata, error)

	// DiscoverForeignKeys returns all declared foreign key constraints.
	DiscoverForeignKeys(ctx context.Context) ([]ForeignKeyMetadata, error)

	// Close releases the database connection.
	Close() error
}

// TableMetadata represents a discovered database table.
type TableMetadata struct {
	SchemaName string
	TableName  string
}

// ColumnMetadata represents a discovered database column.
type ColumnMetadata struct {
	ColumnName      string
	DataType        string
	IsNullable      bool
	IsPrimaryKey    bool
	OrdinalPosition int
}

// ForeignKeyMetadata represents a discovered foreign key constraint.
type ForeignKeyMetadata struct {
	ConstraintName string
	SourceTable    string
	SourceColumn   string
	TargetTable    string
	TargetColumn   string
}

// ConnectionConfig holds the connection settings shared by all extractors.
type ConnectionConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string // postgres: "disable", "require", "verify-ca", "verify-full"
}
