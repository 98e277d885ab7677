package prefixgraph

import "testing"

func walk(root *Node, word string) (*Node, bool) {
	node := root
	for _, r := range word {
		child, ok := node.Child(r)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

func TestInsertReachesTerminalWithMatchingWord(t *testing.T) {
	g := New()
	g.Insert("bmw", "")

	node, ok := walk(g.Root(), "bmw")
	if !ok {
		t.Fatal("walk did not reach a node for 'bmw'")
	}
	word, hasWord := node.Word()
	if !hasWord || word != "bmw" {
		t.Fatalf("terminal node word = (%q, %v), want (bmw, true)", word, hasWord)
	}
}

func TestInsertBranchSharesLeafForSynonym(t *testing.T) {
	g := New()
	leaf := g.Insert("bmw", "")
	g.InsertBranch("beemer", leaf, false, "")

	bmwNode, _ := walk(g.Root(), "bmw")
	beemerNode, ok := walk(g.Root(), "beemer")
	if !ok {
		t.Fatal("walk did not reach a node for 'beemer'")
	}
	if bmwNode != beemerNode {
		t.Fatal("synonym path does not terminate at the same node identity as the canonical path")
	}
}

func TestInsertBranchPenultimateNotMarkedAsWord(t *testing.T) {
	g := New()
	leaf := g.Insert("bmw", "")
	g.InsertBranch("beemer", leaf, false, "")

	penultimate, ok := walk(g.Root(), "beeme")
	if !ok {
		t.Fatal("walk did not reach the penultimate node for 'beemer'")
	}
	if _, hasWord := penultimate.Word(); hasWord {
		t.Fatal("penultimate node of a merged synonym branch should not be marked as a word")
	}
}

func TestValuePrefersOriginalKeyOverWord(t *testing.T) {
	g := New()
	g.Insert("alfa", "alfa romeo")

	node, _ := walk(g.Root(), "alfa")
	if got := node.Value(); got != "alfa romeo" {
		t.Fatalf("Value() = %q, want alfa romeo", got)
	}
}

func TestDescendantsDedupSharedLeaves(t *testing.T) {
	g := New()
	leaf := g.Insert("bmw", "")
	g.InsertBranch("beemer", leaf, false, "")
	g.Insert("bmx", "")

	values := DescendantValues(g.Root(), 10)
	seen := make(map[string]int)
	for _, v := range values {
		seen[v]++
	}
	if seen["bmw"] != 1 {
		t.Fatalf("expected 'bmw' to appear exactly once in descendants, got %d (all: %v)", seen["bmw"], values)
	}
}

func TestDescendantsStopsAfterSizePlusOne(t *testing.T) {
	g := New()
	for _, w := range []string{"aa", "ab", "ac", "ad", "ae"} {
		g.Insert(w, "")
	}

	values := DescendantValues(g.Root(), 2)
	if len(values) > 3 {
		t.Fatalf("got %d descendant values, want at most size+1=3: %v", len(values), values)
	}
}

func TestChildrenIterationOrderIsInsertionOrder(t *testing.T) {
	g := New()
	g.Insert("c", "")
	g.Insert("a", "")
	g.Insert("b", "")

	var order []rune
	for r := range g.Root().Children() {
		order = append(order, r)
	}
	want := []rune{'c', 'a', 'b'}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}
