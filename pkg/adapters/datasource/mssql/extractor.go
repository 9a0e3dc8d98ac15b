package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
)

// Extractor reads SQL Server catalog metadata from the sys.* views.
// Discovery is scoped to the dbo schema.
type Extractor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExtractor connects to SQL Server and verifies the connection.
// If logger is nil, a no-op logger is used.
func NewExtractor(ctx context.Context, cfg datasource.ConnectionConfig, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: url.Values{"database": {cfg.Database}}.Encode(),
	}

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("connect to mssql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mssql: %w", err)
	}

	return &Extractor{db: db, logger: logger}, nil
}

// Close releases the database connection.
func (e *Extractor) Close() error {
	return e.db.Close()
}

// DiscoverTables returns all user tables in the dbo schema.
func (e *Extractor) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	const query = `
		SET NOCOUNT ON;
		SELECT SCHEMA_NAME(t.schema_id) AS schema_name, t.name AS table_name
		FROM sys.tables t
		WHERE t.is_ms_shipped = 0
		  AND SCHEMA_NAME(t.schema_id) = 'dbo'
		ORDER BY t.name
	`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []datasource.TableMetadata
	for rows.Next() {
		var t datasource.TableMetadata
		if err := rows.Scan(&t.SchemaName, &t.TableName); err != nil {
			return nil, fmt.Errorf("scan table row: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table rows: %w", err)
	}

	return tables, nil
}

// DiscoverColumns returns the columns of one table in ordinal order. Primary
// key membership is derived from the table's primary key index columns.
func (e *Extractor) DiscoverColumns(ctx context.Context, tableName string) ([]datasource.ColumnMetadata, error) {
	const query = `
		SET NOCOUNT ON;
		SELECT
			c.name AS column_name,
			ty.name AS data_type,
			c.is_nullable,
			c.column_id AS ordinal_position,
			CASE WHEN pk.column_id IS NOT NULL THEN 1 ELSE 0 END AS is_primary_key
		FROM sys.columns c
		JOIN sys.tables t ON c.object_id = t.object_id
		JOIN sys.types ty ON c.user_type_id = ty.user_type_id
		LEFT JOIN (
			SELECT ic.object_id, ic.column_id
			FROM sys.index_columns ic
			JOIN sys.indexes i
				ON ic.object_id = i.object_id AND ic.index_id = i.index_id
			WHERE i.is_primary_key = 1
		) pk ON pk.object_id = c.object_id AND pk.column_id = c.column_id
		WHERE t.name = @p1
		  AND SCHEMA_NAME(t.schema_id) = 'dbo'
		ORDER BY c.column_id
	`

	rows, err := e.db.QueryContext(ctx, query, tableName)
	if err != nil {
		return nil, fmt.Errorf("query columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	var columns []datasource.ColumnMetadata
	for rows.Next() {
		var c datasource.ColumnMetadata
		if err := rows.Scan(&c.ColumnName, &c.DataType, &c.IsNullable, &c.OrdinalPosition, &c.IsPrimaryKey); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	return columns, nil
}

// DiscoverForeignKeys returns all declared foreign key constraints in the
// dbo schema.
func (e *Extractor) DiscoverForeignKeys(ctx context.Context) ([]datasource.ForeignKeyMetadata, error) {
	const query = `
		SET NOCOUNT ON;
		SELECT
			fk.name AS constraint_name,
			OBJECT_NAME(fkc.parent_object_id) AS source_table,
			pc.name AS source_column,
			OBJECT_NAME(fkc.referenced_object_id) AS target_table,
			rc.name AS target_column
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc
			ON fk.object_id = fkc.constraint_object_id
		JOIN sys.columns pc
			ON fkc.parent_object_id = pc.object_id
			AND fkc.parent_column_id = pc.column_id
		JOIN sys.columns rc
			ON fkc.referenced_object_id = rc.object_id
			AND fkc.referenced_column_id = rc.column_id
		WHERE SCHEMA_NAME(fk.schema_id) = 'dbo'
		ORDER BY source_table, source_column
	`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	var fks []datasource.ForeignKeyMetadata
	for rows.Next() {
		var fk datasource.ForeignKeyMetadata
		if err := rows.Scan(&fk.ConstraintName, &fk.SourceTable, &fk.SourceColumn,
			&fk.TargetTable, &fk.TargetColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}

	return fks, nil
}

var _ datasource.SchemaExtractor = (*Extractor)(nil)
