// Package analyzer is the high-level facade: extract a schema, infer
// relationships, build the graph, and optionally write export files.
package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
	"github.com/relgraph/relgraph/pkg/apperrors"
	"github.com/relgraph/relgraph/pkg/export"
	"github.com/relgraph/relgraph/pkg/extractor"
	"github.com/relgraph/relgraph/pkg/graphbuild"
	"github.com/relgraph/relgraph/pkg/inference"
	"github.com/relgraph/relgraph/pkg/models"
)

// Options controls what an analysis run produces beyond the in-memory result.
type Options struct {
	// OutputDir is where export files are written. Defaults to "output".
	OutputDir string
	// SaveFiles writes the relationship YAML and graph JSON to OutputDir.
	SaveFiles bool
	// Visualize additionally writes the interactive HTML page.
	Visualize bool
}

// Result is the outcome of one analysis run. Every run gets a fresh result;
// nothing is shared between runs except the analyzer's remembered inputs.
type Result struct {
	RunID         uuid.UUID
	Schema        *models.SchemaModel
	Relationships models.RelationshipMap
	Warnings      []models.Warning
	Graph         *models.SchemaGraph
	// OutputFiles maps artifact kind ("relationships", "graph", "html") to
	// the written path. Empty unless Options requested files.
	OutputFiles map[string]string
}

// Analyzer orchestrates the full pipeline. The last extracted schema and last
// inferred relationships are remembered per instance so the step methods can
// be called separately; two analyzers never share state.
type Analyzer struct {
	mu                sync.Mutex
	extractor         *extractor.Service
	engine            *inference.Engine
	builder           *graphbuild.Builder
	logger            *zap.Logger
	lastSchema        *models.SchemaModel
	lastRelationships models.RelationshipMap
}

// New creates an analyzer. If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("analyzer")
	return &Analyzer{
		extractor: extractor.NewService(logger),
		engine:    inference.NewEngine(logger),
		builder:   graphbuild.NewBuilder(logger),
		logger:    logger,
	}
}

// AnalyzeDatabase runs the full pipeline against a live database.
func (a *Analyzer) AnalyzeDatabase(ctx context.Context, dbType string, conn datasource.ConnectionConfig, opts Options) (*Result, error) {
	schema, err := a.ExtractSchema(ctx, dbType, conn)
	if err != nil {
		return nil, err
	}
	return a.analyze(schema, extractor.NormalizeDatabaseType(dbType), opts)
}

// AnalyzeSchema runs inference and graph building on an already-built schema
// model. This is the pure path: no database connection is involved.
func (a *Analyzer) AnalyzeSchema(schema *models.SchemaModel, opts Options) (*Result, error) {
	if schema == nil {
		return nil, apperrors.ErrNoSchema
	}
	return a.analyze(schema, schema.Database, opts)
}

// ExtractSchema extracts and remembers a schema without running inference.
func (a *Analyzer) ExtractSchema(ctx context.Context, dbType string, conn datasource.ConnectionConfig) (*models.SchemaModel, error) {
	schema, err := a.extractor.ExtractSchema(ctx, dbType, conn)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.lastSchema = schema
	a.mu.Unlock()
	return schema, nil
}

// InferRelationships runs inference on the given schema, or on the last
// extracted schema when schema is nil. The result is remembered for
// CreateVisualization.
func (a *Analyzer) InferRelationships(schema *models.SchemaModel) (models.RelationshipMap, []models.Warning, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if schema == nil {
		schema = a.lastSchema
	}
	if schema == nil {
		return nil, nil, apperrors.ErrNoSchema
	}

	relationships, warnings := a.engine.Infer(schema)
	a.lastSchema = schema
	a.lastRelationships = relationships
	return relationships, warnings, nil
}

// CreateVisualization builds the graph from the remembered schema and
// relationships and writes the HTML page to the given path.
func (a *Analyzer) CreateVisualization(outputPath string) error {
	a.mu.Lock()
	schema := a.lastSchema
	relationships := a.lastRelationships
	a.mu.Unlock()

	if schema == nil {
		return apperrors.ErrNoSchema
	}
	if relationships == nil {
		return apperrors.ErrNoRelationships
	}

	graph := a.builder.Build(schema, relationships)
	return writeFile(outputPath, func(f *os.File) error {
		return export.WriteGraphHTML(f, graph)
	})
}

func (a *Analyzer) analyze(schema *models.SchemaModel, prefix string, opts Options) (*Result, error) {
	a.mu.Lock()
	a.lastSchema = schema
	a.mu.Unlock()

	relationships, warnings := a.engine.Infer(schema)

	a.mu.Lock()
	a.lastRelationships = relationships
	a.mu.Unlock()

	graph := a.builder.Build(schema, relationships)
	graphbuild.LogConnectivity(graph, a.logger)

	result := &Result{
		RunID:         uuid.New(),
		Schema:        schema,
		Relationships: relationships,
		Warnings:      warnings,
		Graph:         graph,
		OutputFiles:   map[string]string{},
	}

	for _, w := range warnings {
		a.logger.Warn("Inference warning", zap.String("detail", w.String()))
	}

	if opts.SaveFiles || opts.Visualize {
		if err := a.writeArtifacts(result, prefix, opts); err != nil {
			return nil, err
		}
	}

	a.logger.Info("Analysis complete",
		zap.String("run_id", result.RunID.String()),
		zap.String("database", schema.Database),
		zap.Int("tables", len(graph.Nodes)),
		zap.Int("relationships", len(graph.Edges)),
		zap.Int("warnings", len(warnings)))

	return result, nil
}

func (a *Analyzer) writeArtifacts(result *Result, prefix string, opts Options) error {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if opts.SaveFiles {
		relPath := filepath.Join(outputDir, prefix+"_inferred_relationships.yaml")
		if err := writeFile(relPath, func(f *os.File) error {
			return export.WriteRelationshipsYAML(f, result.Relationships)
		}); err != nil {
			return err
		}
		result.OutputFiles["relationships"] = relPath

		graphPath := filepath.Join(outputDir, prefix+"_schema_graph.json")
		if err := writeFile(graphPath, func(f *os.File) error {
			return export.WriteGraphJSON(f, result.Graph)
		}); err != nil {
			return err
		}
		result.OutputFiles["graph"] = graphPath
	}

	if opts.Visualize {
		htmlPath := filepath.Join(outputDir, prefix+"_schema_graph.html")
		if err := writeFile(htmlPath, func(f *os.File) error {
			return export.WriteGraphHTML(f, result.Graph)
		}); err != nil {
			return err
		}
		result.OutputFiles["html"] = htmlPath
	}

	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
