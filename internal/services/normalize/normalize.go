// Package normalize implements the character-class cleanup described in
// spec.md §4.7: lowercasing, truncation, filtering to an allowed character
// class, and light punctuation collapsing, with results memoized in a
// small LFU cache owned by the Normalizer (not a process-wide global, per
// spec.md §9's systems-language design note).
package normalize

import (
	"strings"

	"autocomplete-hw/internal/services/lfucache"
)

// MaxWordLength caps how much of an input name is considered.
const MaxWordLength = 40

const normalizedCacheSize = 2048

// CharSet is a small set of allowed runes.
type CharSet map[rune]struct{}

// NewCharSet builds a CharSet from the given runes.
func NewCharSet(runes ...rune) CharSet {
	set := make(CharSet, len(runes))
	for _, r := range runes {
		set[r] = struct{}{}
	}
	return set
}

func (c CharSet) has(r rune) bool {
	_, ok := c[r]
	return ok
}

func (c CharSet) union(others ...CharSet) CharSet {
	out := make(CharSet, len(c))
	for r := range c {
		out[r] = struct{}{}
	}
	for _, other := range others {
		for r := range other {
			out[r] = struct{}{}
		}
	}
	return out
}

func defaultStringChars() CharSet {
	set := make(CharSet, 26)
	for r := 'a'; r <= 'z'; r++ {
		set[r] = struct{}{}
	}
	return set
}

func defaultIntegerChars() CharSet {
	set := make(CharSet, 10)
	for r := '0'; r <= '9'; r++ {
		set[r] = struct{}{}
	}
	return set
}

// Normalizer is configured with the string/integer/node-name character
// classes used by RemoveSpecial and Normalize.
type Normalizer struct {
	stringChars   CharSet
	integerChars  CharSet
	nodeNameChars CharSet
	cache         *lfucache.Cache[string, string]
}

// Option configures a Normalizer at construction time.
type Option func(*Normalizer)

// WithStringChars overrides the "letter" character class.
func WithStringChars(cs CharSet) Option {
	return func(n *Normalizer) { n.stringChars = cs }
}

// WithIntegerChars overrides the "digit" character class.
func WithIntegerChars(cs CharSet) Option {
	return func(n *Normalizer) { n.integerChars = cs }
}

// WithNodeNameChars overrides the derived node-name character class
// outright, instead of deriving it from string/integer chars.
func WithNodeNameChars(cs CharSet) Option {
	return func(n *Normalizer) { n.nodeNameChars = cs }
}

// New builds a Normalizer. By default the node-name class is the union of
// the string and integer classes plus {' ', '-', ':', '_'} (spec.md §4.7).
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		stringChars:  defaultStringChars(),
		integerChars: defaultIntegerChars(),
		cache:        lfucache.New[string, string](normalizedCacheSize),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.nodeNameChars == nil {
		n.nodeNameChars = n.stringChars.union(n.integerChars, NewCharSet(' ', '-', ':', '_'))
	}
	return n
}

func truncate(name string) string {
	runes := []rune(name)
	if len(runes) > MaxWordLength {
		runes = runes[:MaxWordLength]
	}
	return string(runes)
}

// RemoveSpecial lowercases name, truncates it to MaxWordLength, drops any
// character outside the node-name class, collapses consecutive '-' to a
// single one, and strips surrounding whitespace. Useful for cleaning a
// user's original input without reshaping it the way Normalize does.
func (n *Normalizer) RemoveSpecial(name string) string {
	name = truncate(strings.ToLower(name))

	var b strings.Builder
	prev := rune(0)
	for _, r := range name {
		if !n.nodeNameChars.has(r) {
			prev = r
			continue
		}
		if r == '-' && prev == '-' {
			prev = r
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}

// Normalize lowercases name, truncates it, keeps only node-name-or-extra
// characters, maps '-' to space, inserts a space at letter/digit
// boundaries, collapses consecutive spaces, and strips the result. Results
// are memoized per (name, extraChars) pair.
func (n *Normalizer) Normalize(name string, extraChars ...rune) string {
	truncated := truncate(name)
	key := truncated + "\x00" + string(extraChars)
	if cached, ok := n.cache.Get(key); ok {
		return cached
	}

	allowed := n.nodeNameChars
	if len(extraChars) > 0 {
		allowed = n.nodeNameChars.union(NewCharSet(extraChars...))
	}

	result := n.normalizeUncached(truncated, allowed)
	n.cache.Set(key, result)
	return result
}

func (n *Normalizer) normalizeUncached(name string, allowed CharSet) string {
	name = strings.ToLower(name)

	var out []rune
	lastKept := rune(0)
	hasLast := false

	for _, r := range name {
		if !allowed.has(r) {
			continue
		}
		if r == '-' {
			r = ' '
		} else if hasLast {
			if n.integerChars.has(r) && n.stringChars.has(lastKept) {
				out = append(out, ' ')
			} else if n.stringChars.has(r) && n.integerChars.has(lastKept) {
				out = append(out, ' ')
			}
		}
		if hasLast && r == ' ' && lastKept == ' ' {
			continue
		}
		out = append(out, r)
		lastKept = r
		hasLast = true
	}

	return strings.TrimSpace(string(out))
}
