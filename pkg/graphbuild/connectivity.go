package graphbuild

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/relgraph/relgraph/pkg/models"
)

// ConnectedComponent is a group of tables connected by relationships,
// ignoring edge direction.
type ConnectedComponent struct {
	Tables []string
	Size   int
}

// Components identifies connected components in the graph using DFS over an
// undirected view of the edges. It returns components of two or more tables
// sorted by size (largest first, ties by first table name) and a sorted list
// of island tables with no relationships at all.
func Components(graph *models.SchemaGraph) ([]ConnectedComponent, []string) {
	adjacency := make(map[string][]string, len(graph.Nodes))
	for _, edge := range graph.Edges {
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		adjacency[edge.Target] = append(adjacency[edge.Target], edge.Source)
	}
	for _, neighbors := range adjacency {
		sort.Strings(neighbors)
	}

	ids := make([]string, len(graph.Nodes))
	for i, node := range graph.Nodes {
		ids[i] = node.ID
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(ids))
	var components []ConnectedComponent
	var islands []string

	for _, id := range ids {
		if visited[id] {
			continue
		}
		component := dfs(id, adjacency, visited)
		sort.Strings(component)
		if len(component) == 1 {
			islands = append(islands, component[0])
			continue
		}
		components = append(components, ConnectedComponent{
			Tables: component,
			Size:   len(component),
		})
	}

	sort.Slice(components, func(i, j int) bool {
		if components[i].Size != components[j].Size {
			return components[i].Size > components[j].Size
		}
		return components[i].Tables[0] < components[j].Tables[0]
	})

	return components, islands
}

// dfs walks the component containing start and returns its members.
func dfs(start string, adjacency map[string][]string, visited map[string]bool) []string {
	var component []string
	stack := []string{start}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true
		component = append(component, current)

		for _, neighbor := range adjacency[current] {
			if !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}

	return component
}

// LogConnectivity logs the connectivity analysis of a built graph in a
// human-readable form.
func LogConnectivity(graph *models.SchemaGraph, logger *zap.Logger) {
	components, islands := Components(graph)

	logger.Info("Graph connectivity analysis:")
	logger.Info(fmt.Sprintf("  Tables: %d, relationships: %d", len(graph.Nodes), len(graph.Edges)))

	for i, comp := range components {
		preview := comp.Tables
		suffix := ""
		if len(preview) > 5 {
			preview = preview[:5]
			suffix = fmt.Sprintf(", ... (%d more)", comp.Size-5)
		}
		logger.Info(fmt.Sprintf("  Component %d (%d tables): %v%s", i+1, comp.Size, preview, suffix))
	}

	if len(islands) > 0 {
		preview := islands
		suffix := ""
		if len(islands) > 5 {
			preview = islands[:5]
			suffix = fmt.Sprintf(", ... (%d more)", len(islands)-5)
		}
		logger.Info(fmt.Sprintf("  Island tables (%d): %v%s", len(islands), preview, suffix))
	}
}
