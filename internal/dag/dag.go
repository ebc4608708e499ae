// SPDX-License-Identifier: MPL-2.0

// Package dag orders recipes by their must-run-before relation and detects
// dependency cycles. The execution planner feeds it every recipe reachable
// from the invocation target and reads back a deterministic topological
// order.
package dag

import (
	"fmt"
	"strings"

	"cookbook-cli/pkg/cookfile"
)

type (
	// CycleError indicates that the dependency graph contains a cycle and no
	// valid execution order exists.
	CycleError struct {
		// Cycle is the closed path of recipe names forming the cycle, with
		// the first name repeated at the end.
		Cycle []cookfile.RecipeName
	}

	// Graph is a directed graph over recipe names. An edge from A to B means
	// A must complete before B starts. Nodes keep insertion order so ties in
	// the topological sort resolve to declaration/discovery order.
	Graph struct {
		dependents map[cookfile.RecipeName][]cookfile.RecipeName
		nodes      []cookfile.RecipeName
		present    map[cookfile.RecipeName]bool
	}
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		names[i] = string(n)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(names, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[cookfile.RecipeName][]cookfile.RecipeName),
		present:    make(map[cookfile.RecipeName]bool),
	}
}

// Add registers a recipe node. Re-adding an existing node is a no-op, so the
// first discovery fixes its position in tie-breaking.
func (g *Graph) Add(name cookfile.RecipeName) {
	if g.present[name] {
		return
	}
	g.present[name] = true
	g.nodes = append(g.nodes, name)
}

// AddPrerequisite records that prereq must complete before dependent starts.
// Both nodes are added implicitly.
func (g *Graph) AddPrerequisite(prereq, dependent cookfile.RecipeName) {
	g.Add(prereq)
	g.Add(dependent)
	g.dependents[prereq] = append(g.dependents[prereq], dependent)
}

// Sort returns a valid execution order using Kahn's algorithm. Each recipe
// appears exactly once, after all of its prerequisites; recipes that become
// ready at the same time keep their insertion order. Returns a CycleError
// naming the cycle when no order exists.
func (g *Graph) Sort() ([]cookfile.RecipeName, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[cookfile.RecipeName]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, deps := range g.dependents {
		for _, d := range deps {
			inDegree[d]++
		}
	}

	queue := make([]cookfile.RecipeName, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	order := make([]cookfile.RecipeName, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, d := range g.dependents[node] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, &CycleError{Cycle: g.findCycle(inDegree)}
	}
	return order, nil
}

// findCycle walks the nodes left with a positive in-degree after Kahn's
// algorithm stalls and extracts one concrete cycle path for the error
// message.
func (g *Graph) findCycle(inDegree map[cookfile.RecipeName]int) []cookfile.RecipeName {
	remaining := make(map[cookfile.RecipeName]bool)
	for _, node := range g.nodes {
		if inDegree[node] > 0 {
			remaining[node] = true
		}
	}

	// Every remaining node sits on or leads into a cycle; walk edges within
	// the remaining set until a node repeats.
	for _, start := range g.nodes {
		if !remaining[start] {
			continue
		}
		visited := make(map[cookfile.RecipeName]int)
		var path []cookfile.RecipeName
		node := start
		for {
			if at, seen := visited[node]; seen {
				return append(path[at:], node)
			}
			visited[node] = len(path)
			path = append(path, node)
			next, ok := g.nextRemaining(node, remaining)
			if !ok {
				break
			}
			node = next
		}
	}
	return nil
}

func (g *Graph) nextRemaining(node cookfile.RecipeName, remaining map[cookfile.RecipeName]bool) (cookfile.RecipeName, bool) {
	for _, d := range g.dependents[node] {
		if remaining[d] {
			return d, true
		}
	}
	return "", false
}
