// Package autocomplete wires the prefix graph, synonym tables, and LFU
// cache into the multi-stage search engine described in spec.md §4.2-4.5.
package autocomplete

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"autocomplete-hw/internal/domain/models"
	"autocomplete-hw/internal/services/lfucache"
	"autocomplete-hw/internal/services/prefixgraph"
	"autocomplete-hw/internal/services/synonyms"
	"autocomplete-hw/internal/utils/frequency"
)

// Defaults for Search's max_cost and size parameters.
const (
	DefaultMaxCost = 2
	DefaultSize    = 5
)

const (
	cacheSize = 2048
	delimiter = "__"

	searchRateLogInterval = 30 * time.Second
)

// ErrBadInput is returned from New when construction input violates a
// structural precondition (e.g. a synonym key absent from words).
var ErrBadInput = errors.New("autocomplete: bad input")

// ErrNotFound is returned by UpdateCount for an unknown word. CountOf and
// GetWordContext report an unknown word through 0 and ok=false instead.
var ErrNotFound = errors.New("autocomplete: word not found")

// Config bundles the inputs accepted by New.
type Config struct {
	// Words maps a canonical key to its attribute record.
	Words map[string]models.WordAttrs
	// Synonyms maps a word already present in Words to its aliases.
	Synonyms models.SynonymInput
	// FullStopWords are terminals for GetTokensFlatList's path expansion.
	FullStopWords []string
	// CacheSize bounds the LFU result cache's capacity. Zero uses a
	// built-in default.
	CacheSize int
	// Logger receives periodic search-rate reports. Defaults to
	// slog.Default() if nil.
	Logger *slog.Logger
}

// Engine is the search engine: an immutable-after-construction prefix
// graph plus synonym tables, backed by an LFU result cache. The zero
// value is not usable; construct with New.
type Engine struct {
	buildMu sync.Mutex
	built   bool
	graph   *prefixgraph.Graph

	wordsMu  sync.RWMutex
	words    map[string]models.WordAttrs
	wordKeys []string

	cleanSynonyms   map[string][]string
	partialSynonyms map[string][]string
	reverseSynonyms map[string]string
	fullStopWords   map[string]struct{}

	cache *lfucache.Cache[string, [][]string]

	log        *slog.Logger
	searchFreq *frequency.Frequency
	freqMu     sync.Mutex
}

// New validates cfg, expands synonyms into the word dictionary, and
// builds the prefix graph under a single construction lock. Every
// synonym key must already be present in cfg.Words.
func New(cfg Config) (*Engine, error) {
	const op = "autocomplete.New"

	for key := range cfg.Synonyms {
		if _, ok := cfg.Words[key]; !ok {
			return nil, fmt.Errorf("%s: %w: synonym key %q not present in words", op, ErrBadInput, key)
		}
	}

	clean, partial := synonyms.Split(cfg.Synonyms)
	reverse := synonyms.Reverse(clean)
	words := synonyms.ExpandPartial(cfg.Words, partial)

	fullStop := make(map[string]struct{}, len(cfg.FullStopWords))
	for _, w := range cfg.FullStopWords {
		fullStop[w] = struct{}{}
	}

	capacity := cfg.CacheSize
	if capacity <= 0 {
		capacity = cacheSize
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		words:           words,
		cleanSynonyms:   clean,
		partialSynonyms: partial,
		reverseSynonyms: reverse,
		fullStopWords:   fullStop,
		cache:           lfucache.New[string, [][]string](capacity),
		log:             log,
		searchFreq:      &frequency.Frequency{Interval: searchRateLogInterval, LastTime: time.Now()},
	}
	e.populateGraph()
	return e, nil
}

// populateGraph builds the prefix graph exactly once, under double-
// checked locking: after the first call it is safe to call concurrently
// with any number of readers, since the graph is read-only thereafter.
func (e *Engine) populateGraph() {
	if e.built {
		return
	}
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	if e.built {
		return
	}

	e.graph = prefixgraph.New()

	e.wordKeys = make([]string, 0, len(e.words))
	for word := range e.words {
		e.wordKeys = append(e.wordKeys, word)
	}
	sort.Strings(e.wordKeys)

	for _, word := range e.wordKeys {
		record := e.words[word]
		originalKey, _ := record.Get(models.FieldOriginalKey, "").(string)
		normalized := strings.ToLower(strings.TrimSpace(word))

		leaf := e.graph.InsertBranch(normalized, nil, true, originalKey)
		if syns, ok := e.cleanSynonyms[normalized]; ok {
			for _, syn := range syns {
				e.graph.InsertBranch(syn, leaf, false, "")
			}
		}
	}

	e.built = true
}

// Search returns up to size token paths matching word, using a bounded
// edit distance of maxCost for the fuzzy fallback stage. Results are
// memoized in the engine's LFU cache.
func (e *Engine) Search(word string, maxCost, size int) [][]string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil
	}
	e.recordSearch()

	key := fmt.Sprintf("%s-%d-%d", word, maxCost, size)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	result, _ := e.findAndSort(word, maxCost, size)
	e.cache.Set(key, result)
	return result
}

// recordSearch tallies one query against the engine's search-rate
// counter, logging the average rate once per searchRateLogInterval.
func (e *Engine) recordSearch() {
	e.freqMu.Lock()
	defer e.freqMu.Unlock()
	e.searchFreq.Add(1)
	e.searchFreq.Check(e.log)
}

// SearchDefault calls Search with DefaultMaxCost and DefaultSize.
func (e *Engine) SearchDefault(word string) [][]string {
	return e.Search(word, DefaultMaxCost, DefaultSize)
}

// SearchTrace behaves like Search but also returns the find-step trace
// for the query, uncached, for diagnostic callers such as the CUI.
func (e *Engine) SearchTrace(word string, maxCost, size int) ([][]string, []models.FindStep) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, nil
	}
	return e.findAndSort(word, maxCost, size)
}

// Root exposes the prefix graph's root node, for diagnostics (e.g.
// utils.ComputeGraphStats) that need to walk the built graph directly.
func (e *Engine) Root() *prefixgraph.Node {
	return e.graph.Root()
}

// UpdateCount sets (count != nil) or increments (offset != nil) a word's
// count field and returns the new value. Exactly one of count/offset
// should be non-nil; when both are nil the count is left unchanged.
func (e *Engine) UpdateCount(word string, count, offset *int) (int, error) {
	const op = "autocomplete.UpdateCount"

	e.wordsMu.Lock()
	defer e.wordsMu.Unlock()

	record, ok := e.words[word]
	if !ok {
		return 0, fmt.Errorf("%s: %w: %q", op, ErrNotFound, word)
	}

	current, _ := record.Get(models.FieldCount, 0).(int)
	next := current
	switch {
	case count != nil:
		next = *count
	case offset != nil:
		next = current + *offset
	}

	e.words[word] = record.WithField(models.FieldCount, next)
	return next, nil
}

// CountOf returns word's current count, or 0 if word is absent.
func (e *Engine) CountOf(word string) int {
	e.wordsMu.RLock()
	defer e.wordsMu.RUnlock()

	record, ok := e.words[word]
	if !ok {
		return 0
	}
	count, _ := record.Get(models.FieldCount, 0).(int)
	return count
}

// GetWordContext returns word's attribute record, if present.
func (e *Engine) GetWordContext(word string) (models.WordAttrs, bool) {
	e.wordsMu.RLock()
	defer e.wordsMu.RUnlock()

	record, ok := e.words[word]
	return record, ok
}

// GetTokensFlatList flattens Search's result paths into a single
// deduplicated token sequence, in order of first appearance. A path
// stops contributing further tokens once it reaches a full-stop word.
func (e *Engine) GetTokensFlatList(word string, maxCost, size int) []string {
	paths := e.Search(word, maxCost, size)

	seen := make(map[string]struct{})
	var tokens []string
	for _, path := range paths {
		for _, token := range path {
			if token == "" {
				continue
			}
			if _, dup := seen[token]; !dup {
				seen[token] = struct{}{}
				tokens = append(tokens, token)
			}
			if _, stop := e.fullStopWords[token]; stop {
				break
			}
		}
	}
	return tokens
}
