package datasource

import (
	"context"
	"sort"
	"sync"
)

// AdapterInfo describes a registered extractor for discovery.
type AdapterInfo struct {
	Type        string `json:"type"`         // "postgres", "mysql", "mssql"
	DisplayName string `json:"display_name"` // "PostgreSQL", "MySQL", "Microsoft SQL Server"
	DefaultPort int    `json:"default_port"`
}

// AdapterRegistration contains info plus the factory for creating extractors.
type AdapterRegistration struct {
	Info             AdapterInfo
	ExtractorFactory func(ctx context.Context, cfg ConnectionConfig) (SchemaExtractor, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AdapterRegistration)
)

// Register is called by each adapter's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredAdapters returns info for all registered adapters, sorted by type.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// GetExtractorFactory returns the extractor factory for a database type.
// Returns nil if the type is not registered.
func GetExtractorFactory(dbType string) func(ctx context.Context, cfg ConnectionConfig) (SchemaExtractor, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if reg, ok := registry[dbType]; ok {
		return reg.ExtractorFactory
	}
	return nil
}

// IsRegistered checks if an adapter type is available.
func IsRegistered(dbType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dbType]
	return ok
}
