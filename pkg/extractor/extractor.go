// Package extractor turns live database catalogs into normalized schema
// models. Importing it registers every bundled datasource adapter.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
	_ "github.com/relgraph/relgraph/pkg/adapters/datasource/mssql"
	_ "github.com/relgraph/relgraph/pkg/adapters/datasource/mysql"
	_ "github.com/relgraph/relgraph/pkg/adapters/datasource/postgres"
	"github.com/relgraph/relgraph/pkg/apperrors"
	"github.com/relgraph/relgraph/pkg/models"
)

// Service extracts schemas from live databases through registered adapters.
type Service struct {
	logger *zap.Logger
}

// NewService creates a schema extraction service.
// If logger is nil, a no-op logger is used.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger.Named("extractor")}
}

// NormalizeDatabaseType maps common aliases onto registered adapter types.
func NormalizeDatabaseType(dbType string) string {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "mssql", "sqlserver", "sql_server":
		return "mssql"
	default:
		return strings.ToLower(strings.TrimSpace(dbType))
	}
}

// ExtractSchema connects to the database, discovers tables, columns and
// declared foreign keys, and builds a validated schema model.
func (s *Service) ExtractSchema(ctx context.Context, dbType string, conn datasource.ConnectionConfig) (*models.SchemaModel, error) {
	normalized := NormalizeDatabaseType(dbType)

	factory := datasource.GetExtractorFactory(normalized)
	if factory == nil {
		return nil, fmt.Errorf("database type %q: %w", dbType, apperrors.ErrUnsupportedDatabase)
	}

	ext, err := factory(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("create %s extractor: %w", normalized, err)
	}
	defer func() {
		if closeErr := ext.Close(); closeErr != nil {
			s.logger.Warn("Failed to close extractor", zap.Error(closeErr))
		}
	}()

	tableMeta, err := ext.DiscoverTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}
	s.logger.Info("Discovered tables",
		zap.String("database_type", normalized),
		zap.Int("count", len(tableMeta)))

	tables := make([]models.Table, 0, len(tableMeta))
	index := make(map[string]int, len(tableMeta))
	for _, tm := range tableMeta {
		colMeta, err := ext.DiscoverColumns(ctx, tm.TableName)
		if err != nil {
			return nil, fmt.Errorf("discover columns for %s: %w", tm.TableName, err)
		}

		table := models.Table{Name: tm.TableName}
		for _, cm := range colMeta {
			table.Columns = append(table.Columns, models.Column{
				Name:         cm.ColumnName,
				DataType:     cm.DataType,
				Nullable:     cm.IsNullable,
				IsPrimaryKey: cm.IsPrimaryKey,
			})
		}
		index[tm.TableName] = len(tables)
		tables = append(tables, table)
	}

	fks, err := ext.DiscoverForeignKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover foreign keys: %w", err)
	}
	for _, fk := range fks {
		i, ok := index[fk.SourceTable]
		if !ok {
			s.logger.Warn("Foreign key references unknown source table, skipping",
				zap.String("constraint", fk.ConstraintName),
				zap.String("source_table", fk.SourceTable))
			continue
		}
		tables[i].ForeignKeys = append(tables[i].ForeignKeys, models.ForeignKey{
			Column:           fk.SourceColumn,
			ReferencesTable:  fk.TargetTable,
			ReferencesColumn: fk.TargetColumn,
		})
	}

	schema, err := models.NewSchemaModel(conn.Database, tables)
	if err != nil {
		return nil, fmt.Errorf("build schema model: %w", err)
	}

	s.logger.Info("Schema extraction complete",
		zap.String("database", conn.Database),
		zap.Int("tables", len(schema.Tables)),
		zap.Int("declared_foreign_keys", len(fks)))

	return schema, nil
}
