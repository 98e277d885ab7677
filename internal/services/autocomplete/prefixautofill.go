package autocomplete

import (
	"math"
	"strings"

	"autocomplete-hw/internal/services/prefixgraph"
)

// prefixResult is the outcome of walking a query as far as the graph
// allows: the characters still pending (restOfWord), the node reached,
// and every distinct word committed along the way.
type prefixResult struct {
	matchedPrefixOfLastWord string
	restOfWord              string
	node                    *prefixgraph.Node
	matchedWords            []string
}

// prefixAutofill repeatedly re-walks the query from the root using
// whatever was left unconsumed, recovering matches that a single greedy
// pass would miss when an earlier token boundary was misjudged. It stops
// once a re-walk makes no further progress or adds no new word.
func (e *Engine) prefixAutofill(word string, node *prefixgraph.Node) prefixResult {
	var matchedWords []string
	matchedSet := make(map[string]struct{})

	addWords := func(words []string) bool {
		added := false
		for _, w := range words {
			if _, ok := matchedSet[w]; !ok {
				matchedWords = append(matchedWords, w)
				matchedSet[w] = struct{}{}
				added = true
			}
		}
		return added
	}

	prefix, rest, n, part := e.prefixAutofillPart(word, node)
	addWords(part)
	result := prefixResult{prefix, rest, n, append([]string(nil), matchedWords...)}

	lenRest := len([]rune(rest))
	lenPrevRest := math.MaxInt

	for lenRest > 0 && lenRest < lenPrevRest {
		next := strings.TrimSpace(prefix + rest)
		lenPrevRest = lenRest

		prefix, rest, n, part = e.prefixAutofillPart(next, e.graph.Root())
		if !addWords(part) {
			break
		}
		lenRest = len([]rune(rest))
		result = prefixResult{prefix, rest, n, append([]string(nil), matchedWords...)}
	}

	return result
}

// prefixAutofillPart walks word one character at a time from node
// (defaulting to the graph root), descending into children and treating
// an unmatched space as a token boundary that resets to the root. A
// node's word is only committed once the next character is a space or
// the query is exhausted, since otherwise it is a proper prefix of a
// longer inserted word.
func (e *Engine) prefixAutofillPart(word string, node *prefixgraph.Node) (matchedPrefixOfLastWord, restOfWord string, resultNode *prefixgraph.Node, matchedWords []string) {
	if node == nil {
		node = e.graph.Root()
	}
	queue := []rune(word)

	for len(queue) > 0 {
		ch := queue[0]

		if node.HasChildren() {
			child, ok := node.Child(ch)
			if !ok {
				break
			}
			queue = queue[1:]
			node = child

			if ch != ' ' || matchedPrefixOfLastWord != "" {
				matchedPrefixOfLastWord += string(ch)
			}

			if w, hasWord := node.Word(); hasWord && w != "" {
				if len(queue) > 0 && queue[0] != ' ' {
					continue
				}
				matchedPrefixOfLastWord = ""
				matchedWords = append(matchedWords, node.Value())
			}
		} else {
			if ch == ' ' {
				queue = queue[1:]
				node = e.graph.Root()
			} else {
				break
			}
		}
	}

	if len(queue) == 0 {
		if w, hasWord := node.Word(); hasWord && w != "" {
			matchedPrefixOfLastWord = ""
			matchedWords = append(matchedWords, node.Value())
		}
	}

	restOfWord = string(queue)
	return matchedPrefixOfLastWord, restOfWord, node, matchedWords
}
