package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
)

// Extractor reads MySQL catalog metadata. Discovery is scoped to the
// database named in the connection config via DATABASE().
type Extractor struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewExtractor connects to MySQL and verifies the connection.
// If logger is nil, a no-op logger is used.
func NewExtractor(ctx context.Context, cfg datasource.ConnectionConfig, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &Extractor{db: db, logger: logger}, nil
}

// Close releases the database connection.
func (e *Extractor) Close() error {
	return e.db.Close()
}

// DiscoverTables returns all base tables in the connected database.
func (e *Extractor) DiscoverTables(ctx context.Context) ([]datasource.TableMetadata, error) {
	const query = `
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
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

// DiscoverColumns returns the columns of one table in ordinal order.
// Primary key membership comes from column_key = 'PRI'.
func (e *Extractor) DiscoverColumns(ctx context.Context, tableName string) ([]datasource.ColumnMetadata, error) {
	const query = `
		SELECT
			column_name,
			data_type,
			is_nullable = 'YES' AS is_nullable,
			ordinal_position,
			column_key = 'PRI' AS is_primary_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
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
// connected database.
func (e *Extractor) DiscoverForeignKeys(ctx context.Context) ([]datasource.ForeignKeyMetadata, error) {
	const query = `
		SELECT
			constraint_name,
			table_name AS source_table,
			column_name AS source_column,
			referenced_table_name AS target_table,
			referenced_column_name AS target_column
		FROM information_schema.key_column_usage
		WHERE table_schema = DATABASE()
		  AND referenced_table_name IS NOT NULL
		ORDER BY table_name, column_name
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
