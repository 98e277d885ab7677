package utils

import (
	"testing"

	"autocomplete-hw/internal/services/prefixgraph"
)

func TestComputeGraphStatsCountsNodesAndTerminals(t *testing.T) {
	g := prefixgraph.New()
	g.Insert("bmw", "")
	g.Insert("bmx", "")

	stats := ComputeGraphStats(g.Root())

	// root -> b -> m -> {w (terminal, "bmw"), x (terminal, "bmx")}: 5 nodes.
	if stats.Nodes != 5 {
		t.Fatalf("Nodes = %d, want 5", stats.Nodes)
	}
	if stats.Terminals != 2 {
		t.Fatalf("Terminals = %d, want 2", stats.Terminals)
	}
	if stats.MaxDepth != 3 {
		t.Fatalf("MaxDepth = %d, want 3", stats.MaxDepth)
	}
}

func TestComputeGraphStatsDedupsSharedLeaf(t *testing.T) {
	g := prefixgraph.New()
	leaf := g.InsertBranch("bmw", nil, true, "")
	g.InsertBranch("beemer", leaf, false, "")

	stats := ComputeGraphStats(g.Root())

	// "bmw" and "beemer" share their terminal node, so it is counted once.
	if stats.Terminals != 1 {
		t.Fatalf("Terminals = %d, want 1 (shared leaf must not be double-counted)", stats.Terminals)
	}
}
