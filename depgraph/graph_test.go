package depgraph

import "testing"

func TestAddNodeIdempotent(t *testing.T) {
	g := New[string, string]()
	i1 := g.AddNode("a")
	i2 := g.AddNode("a")
	if i1 != i2 {
		t.Fatalf("AddNode not idempotent: %d != %d", i1, i2)
	}
	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
}

func TestAddNodeInsertionOrder(t *testing.T) {
	g := New[string, string]()
	g.AddNode("b")
	g.AddNode("a")
	g.AddNode("c")
	got := g.Nodes()
	want := []string{"b", "a", "c"}
	for i, n := range want {
		if got[i] != n {
			t.Fatalf("Nodes()[%d] = %q, want %q", i, got[i], n)
		}
	}
}

func TestAddEdgeDedup(t *testing.T) {
	g := New[string, string]()
	if !g.AddEdge("a", "b", "X") {
		t.Fatal("first AddEdge should succeed")
	}
	if g.AddEdge("a", "b", "X") {
		t.Fatal("duplicate (src,dst,kind) should be rejected")
	}
	if !g.AddEdge("a", "b", "Y") {
		t.Fatal("different kind between same nodes should succeed")
	}
	if len(g.OutEdges("a")) != 2 {
		t.Fatalf("OutEdges(a) = %d, want 2", len(g.OutEdges("a")))
	}
}

func TestInOutEdges(t *testing.T) {
	g := New[int, string]()
	g.AddEdge(1, 2, "e")
	g.AddEdge(1, 3, "e")
	g.AddEdge(2, 3, "e")

	if len(g.OutEdges(1)) != 2 {
		t.Fatalf("OutEdges(1) = %v", g.OutEdges(1))
	}
	if len(g.InEdges(3)) != 2 {
		t.Fatalf("InEdges(3) = %v", g.InEdges(3))
	}
}

func TestAllPaths(t *testing.T) {
	g := New[int, string]()
	g.AddEdge(1, 2, "e")
	g.AddEdge(2, 4, "e")
	g.AddEdge(1, 3, "e")
	g.AddEdge(3, 4, "e")

	paths := g.AllPaths(1, 4)
	if len(paths) != 2 {
		t.Fatalf("AllPaths(1,4) = %v, want 2 paths", paths)
	}
}

func TestAllPathsAvoidsCycles(t *testing.T) {
	g := New[int, string]()
	g.AddEdge(1, 2, "e")
	g.AddEdge(2, 1, "e") // cycle back to 1
	g.AddEdge(2, 3, "e")

	paths := g.AllPaths(1, 3)
	if len(paths) != 1 {
		t.Fatalf("AllPaths(1,3) = %v, want 1 path", paths)
	}
}

func TestHighlight(t *testing.T) {
	g := New[string, string]()
	g.AddNode("a")
	if g.IsHighlighted("a") {
		t.Fatal("should not be highlighted by default")
	}
	g.Highlight("a")
	if !g.IsHighlighted("a") {
		t.Fatal("should be highlighted after Highlight")
	}
}

func TestFindCyclesSimple(t *testing.T) {
	g := New[string, string]()
	g.AddEdge("a", "b", "L")
	g.AddEdge("b", "a", "L")
	g.AddEdge("a", "c", "L") // no cycle

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("FindCycles() = %v, want exactly 1 cycle", cycles)
	}
	if len(cycles[0]) != 2 {
		t.Fatalf("cycle = %v, want length 2", cycles[0])
	}
}
