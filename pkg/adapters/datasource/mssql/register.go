package mssql

import (
	"context"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "mssql",
			DisplayName: "Microsoft SQL Server",
			DefaultPort: 1433,
		},
		ExtractorFactory: func(ctx context.Context, cfg datasource.ConnectionConfig) (datasource.SchemaExtractor, error) {
			return NewExtractor(ctx, cfg, nil)
		},
	})
}
