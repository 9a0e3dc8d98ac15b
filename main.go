package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
	"github.com/relgraph/relgraph/pkg/analyzer"
	"github.com/relgraph/relgraph/pkg/config"
)

func main() {
	var (
		dbName     = flag.String("db", "", "configured database to analyze (required unless -list)")
		configPath = flag.String("config", "config.yaml", "path to configuration file")
		outputDir  = flag.String("output", "", "output directory (overrides config)")
		visualize  = flag.Bool("visualize", false, "write an interactive HTML graph")
		listOnly   = flag.Bool("list", false, "list supported database types and exit")
	)
	flag.Parse()

	if *listOnly {
		for _, info := range datasource.RegisteredAdapters() {
			fmt.Printf("%-10s %s (default port %d)\n", info.Type, info.DisplayName, info.DefaultPort)
		}
		return
	}

	if *dbName == "" {
		fmt.Fprintln(os.Stderr, "error: -db is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	dbCfg, err := cfg.Database(*dbName)
	if err != nil {
		logger.Fatal("Unknown database", zap.String("name", *dbName), zap.Error(err))
	}

	opts := analyzer.Options{
		OutputDir: cfg.OutputDir,
		SaveFiles: true,
		Visualize: cfg.Visualize || *visualize,
	}
	if *outputDir != "" {
		opts.OutputDir = *outputDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := analyzer.New(logger).AnalyzeDatabase(ctx, dbCfg.Type, dbCfg.Connection(), opts)
	if err != nil {
		logger.Fatal("Analysis failed", zap.String("db", *dbName), zap.Error(err))
	}

	displayRelationships(result)

	for kind, path := range result.OutputFiles {
		logger.Info("Wrote artifact", zap.String("kind", kind), zap.String("path", path))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "local" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func displayRelationships(result *analyzer.Result) {
	fmt.Printf("\nDatabase: %s (%d tables)\n", result.Schema.Database, len(result.Graph.Nodes))

	tables := make([]string, 0, len(result.Relationships))
	for name := range result.Relationships {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	for _, name := range tables {
		entry := result.Relationships[name]
		fmt.Printf("\n%s:\n", name)
		if entry.PrimaryKey != "" {
			fmt.Printf("  primary key: %s\n", entry.PrimaryKey)
		} else {
			fmt.Printf("  primary key: (none)\n")
		}
		if len(entry.ForeignKeys) == 0 {
			fmt.Printf("  foreign keys: (none)\n")
			continue
		}
		for _, fk := range entry.ForeignKeys {
			marker := ""
			if fk.Inconsistent {
				marker = "  [dangling]"
			}
			fmt.Printf("  %s -> %s (%.2f, %s)%s\n",
				fk.SourceColumn, fk.References(), fk.Confidence, fk.Basis, marker)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, w := range result.Warnings {
			fmt.Printf("  %s\n", w.String())
		}
	}
	fmt.Println()
}
