package autocomplete

import (
	"math"
	"sort"
	"strings"

	"autocomplete-hw/internal/domain/models"
	"autocomplete-hw/internal/services/prefixgraph"
)

// maxFuzzyRecursion caps the recursive fuzzy-round-2 call started when
// leftover text remains after a fuzzy match, matching the reference's
// call_count < 2 guard.
const maxFuzzyRecursion = 2

// find runs the multi-stage search: a greedy prefix walk, then either a
// short-leftover descendant expansion or a bounded fuzzy fallback, with
// one level of fuzzy recursion on whatever fuzzy matching left behind.
// results buckets token paths by edit distance; steps records which
// stages ran, for diagnostics and testing.
func (e *Engine) find(word string, maxCost, size, callCount int) (map[int][][]string, []models.FindStep) {
	results := make(map[int][][]string)
	fuzzyMatches := make(map[int][]string)
	var restOfResults map[int][][]string
	fuzzyMatchesLen := 0

	fuzzyMinDistance := math.MaxInt
	minDistance := math.MaxInt

	pr := e.prefixAutofill(word, e.graph.Root())
	matchedWords := pr.matchedWords
	lastWord := pr.matchedPrefixOfLastWord + pr.restOfWord

	if len(matchedWords) > 0 {
		results[0] = [][]string{append([]string(nil), matchedWords...)}
		minDistance = 0
	}

	var steps []models.FindStep

	if len([]rune(pr.restOfWord)) < 3 {
		steps = []models.FindStep{{Kind: models.StepDescendantsOnly}}
		e.addDescendantsWordsToResults(pr.node, size, matchedWords, results, 1)
		return results, steps
	}

	steps = []models.FindStep{{Kind: models.StepFuzzyTry}}

	chunks := splitNonEmpty(lastWord)
	var newWord string
	if len(chunks) > 0 {
		newWord = chunks[0]
		chunks = chunks[1:]
	}
	for len([]rune(newWord)) < 5 && len(chunks) > 0 {
		newWord = newWord + " " + chunks[0]
		chunks = chunks[1:]
	}
	fuzzyRestOfWord := strings.Join(chunks, " ")

	for _, w := range e.wordKeys {
		if absInt(len([]rune(w))-len([]rune(newWord))) > maxCost {
			continue
		}
		dist := levenshtein(newWord, w)
		if dist >= maxCost {
			continue
		}
		fuzzyMatchesLen++
		value, _ := e.words[w].Get(models.FieldOriginalKey, w).(string)
		if value == "" {
			value = w
		}
		fuzzyMatches[dist] = append(fuzzyMatches[dist], value)
		if dist < fuzzyMinDistance {
			fuzzyMinDistance = dist
		}
		if fuzzyMatchesLen >= size || dist < 2 {
			break
		}
	}

	if fuzzyMatchesLen > 0 {
		steps = append(steps, models.FindStep{Kind: models.StepFuzzyFound})

		if fuzzyRestOfWord != "" {
			callCount++
			if callCount < maxFuzzyRecursion {
				rr, restSteps := e.find(fuzzyRestOfWord, maxCost, size, callCount)
				restOfResults = rr
				steps = append(steps, models.FindStep{Kind: models.StepRestOfFuzzyRound2, Sub: restSteps})
			}
		}

		for _, w := range fuzzyMatches[fuzzyMinDistance] {
			if len(restOfResults) > 0 {
				minKey := minIntKey(restOfResults)
				for _, restPath := range restOfResults[minKey] {
					path := append(append([]string(nil), matchedWords...), w)
					path = append(path, restPath...)
					results[fuzzyMinDistance] = append(results[fuzzyMinDistance], path)
				}
			} else {
				path := append(append([]string(nil), matchedWords...), w)
				results[fuzzyMinDistance] = append(results[fuzzyMinDistance], path)

				fuzzyPR := e.prefixAutofill(w, nil)
				e.addDescendantsWordsToResults(fuzzyPR.node, size, matchedWords, results, fuzzyMinDistance)
			}
		}
	}

	if len(matchedWords) > 0 && !isEnoughResults(results, size) {
		steps = append(steps, models.FindStep{Kind: models.StepNotEnoughResultsAddSomeDescendants})
		totalMinDistance := minDistance
		if fuzzyMinDistance < totalMinDistance {
			totalMinDistance = fuzzyMinDistance
		}
		e.addDescendantsWordsToResults(pr.node, size, matchedWords, results, totalMinDistance+1)
	}

	return results, steps
}

// findAndSort flattens find's distance buckets in ascending order,
// rewrites each token through the reverse-synonym map (or blanks it if
// it names no known word), and deduplicates by joined path signature
// until size distinct paths have been produced.
func (e *Engine) findAndSort(word string, maxCost, size int) ([][]string, []models.FindStep) {
	results, steps := e.find(word, maxCost, size, 0)

	keys := make([]int, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	seen := make(map[string]struct{})
	var output [][]string

	for _, key := range keys {
		for _, path := range results[key] {
			rewritten := make([]string, len(path))
			for i, item := range path {
				if canon, ok := e.reverseSynonyms[item]; ok {
					rewritten[i] = canon
				} else if _, ok := e.words[item]; ok {
					rewritten[i] = item
				} else {
					rewritten[i] = ""
				}
			}
			if len(rewritten) == 0 {
				continue
			}
			sig := strings.Join(rewritten, delimiter)
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			output = append(output, rewritten)
			if len(seen) >= size {
				return output, steps
			}
		}
	}
	return output, steps
}

func (e *Engine) addDescendantsWordsToResults(node *prefixgraph.Node, size int, matchedWords []string, results map[int][][]string, distance int) {
	if node == nil {
		return
	}
	descendantWords := prefixgraph.DescendantValues(node, size)
	extended := extendAndRepeat(matchedWords, descendantWords)
	if len(extended) > 0 {
		results[distance] = append(results[distance], extended...)
	}
}

// extendAndRepeat appends each item in list2 (not already present in
// list1) onto a copy of list1, collapsing a trailing entry that item
// extends (e.g. "bmw" followed by "bmw 1 series" keeps only the longer
// one) into a single token.
func extendAndRepeat(list1, list2 []string) [][]string {
	if len(list1) == 0 {
		result := make([][]string, 0, len(list2))
		for _, item := range list2 {
			result = append(result, []string{item})
		}
		return result
	}

	var result [][]string
	for _, item := range list2 {
		if containsString(list1, item) {
			continue
		}
		extended := append([]string(nil), list1...)
		if strings.HasPrefix(item, extended[len(extended)-1]) {
			extended = extended[:len(extended)-1]
		}
		extended = append(extended, item)
		result = append(result, extended)
	}
	return result
}

func containsString(list []string, item string) bool {
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func isEnoughResults(results map[int][][]string, size int) bool {
	total := 0
	for _, v := range results {
		total += len(v)
	}
	return total >= size
}

func minIntKey(m map[int][][]string) int {
	first := true
	var result int
	for k := range m {
		if first || k < result {
			result = k
			first = false
		}
	}
	return result
}

func splitNonEmpty(s string) []string {
	parts := strings.Split(s, " ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
