package mysql

import (
	"context"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "mysql",
			DisplayName: "MySQL",
			DefaultPort: 3306,
		},
		ExtractorFactory: func(ctx context.Context, cfg datasource.ConnectionConfig) (datasource.SchemaExtractor, error) {
			return NewExtractor(ctx, cfg, nil)
		},
	})
}
