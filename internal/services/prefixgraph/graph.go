// Package prefixgraph implements the shared-prefix character DAG that
// stores the vocabulary: one node per character position, with synonym
// branches wired directly onto a shared terminal node (spec.md §3, §4.1).
package prefixgraph

import "iter"

// Node is one position in the prefix graph. Word is the canonical phrase
// terminating here (empty if this node is only an intermediate hop).
// OriginalKey optionally back-points to the word whose attributes should
// be used when this node is rendered as a result.
type Node struct {
	word        string
	hasWord     bool
	originalKey string
	children    map[rune]*Node
	order       []rune
}

func newNode() *Node {
	return &Node{children: make(map[rune]*Node)}
}

// Word reports the canonical phrase terminating at this node, if any.
func (n *Node) Word() (string, bool) {
	return n.word, n.hasWord
}

// Value is OriginalKey if set, else Word; empty if the node is purely
// intermediate. This is what gets emitted into search results.
func (n *Node) Value() string {
	if n.originalKey != "" {
		return n.originalKey
	}
	return n.word
}

// HasChildren reports whether this node has any outgoing edges.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// Child returns the node reached by the single-character edge r.
func (n *Node) Child(r rune) (*Node, bool) {
	c, ok := n.children[r]
	return c, ok
}

func (n *Node) setChild(r rune, child *Node) {
	if _, exists := n.children[r]; !exists {
		n.order = append(n.order, r)
	}
	n.children[r] = child
}

// Children yields this node's outgoing edges in the order they were
// first created, for deterministic traversal.
func (n *Node) Children() iter.Seq2[rune, *Node] {
	return func(yield func(rune, *Node) bool) {
		for _, r := range n.order {
			if !yield(r, n.children[r]) {
				return
			}
		}
	}
}

// Descendants performs a breadth-first walk of the subtree rooted at n's
// children, yielding each node whose Value is non-empty at most once even
// though shared synonym leaves make the structure a DAG rather than a
// tree. Traversal stops once size+1 distinct values have been yielded
// (one extra probe past the caller's size, matching the reference
// behaviour) or the frontier is exhausted.
func (n *Node) Descendants(size int) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		type edge struct {
			node *Node
		}
		visited := map[*Node]struct{}{n: {}}
		foundValues := make(map[string]struct{})

		var queue []edge
		for _, r := range n.order {
			child := n.children[r]
			if _, seen := visited[child]; !seen {
				visited[child] = struct{}{}
				queue = append(queue, edge{child})
			}
		}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			if v := current.node.Value(); v != "" {
				if _, seen := foundValues[v]; !seen {
					foundValues[v] = struct{}{}
					if !yield(current.node) {
						return
					}
					if len(foundValues) > size {
						return
					}
				}
			}

			for _, r := range current.node.order {
				grandchild := current.node.children[r]
				if _, seen := visited[grandchild]; !seen {
					visited[grandchild] = struct{}{}
					queue = append(queue, edge{grandchild})
				}
			}
		}
	}
}

// DescendantValues maps Descendants to their Values, in traversal order.
func DescendantValues(n *Node, size int) []string {
	var values []string
	for d := range n.Descendants(size) {
		values = append(values, d.Value())
	}
	return values
}

// Graph is the prefix DAG's root, owning the full vocabulary.
type Graph struct {
	root *Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{root: newNode()}
}

// Root returns the graph's root node, the starting point for any prefix
// walk.
func (g *Graph) Root() *Node {
	return g.root
}

// Insert walks word from the root, creating missing children, and marks
// the terminal node's Word/OriginalKey. Returns the terminal node.
func (g *Graph) Insert(word, originalKey string) *Node {
	return g.insert(g.root, word, true, originalKey)
}

// InsertBranch is the synonym-sharing primitive. When leafNode is
// supplied, every character but the last is inserted normally (with
// addWord controlling whether that penultimate node is itself marked as
// a word), then the final edge is bound directly onto leafNode, so two
// distinct paths terminate at the same node identity. When leafNode is
// nil, this behaves like Insert: the terminal node is always marked with
// word and originalKey, and addWord is ignored.
func (g *Graph) InsertBranch(word string, leafNode *Node, addWord bool, originalKey string) *Node {
	if leafNode == nil {
		return g.insert(g.root, word, true, originalKey)
	}

	runes := []rune(word)
	if len(runes) == 0 {
		return leafNode
	}
	prefix := string(runes[:len(runes)-1])
	last := runes[len(runes)-1]

	penultimate := g.insert(g.root, prefix, addWord, originalKey)
	penultimate.setChild(last, leafNode)
	return leafNode
}

func (g *Graph) insert(start *Node, word string, addWord bool, originalKey string) *Node {
	node := start
	for _, r := range word {
		child, ok := node.Child(r)
		if !ok {
			child = newNode()
			node.setChild(r, child)
		}
		node = child
	}
	if addWord {
		node.word = word
		node.hasWord = true
		node.originalKey = originalKey
	}
	return node
}
