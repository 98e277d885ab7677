// Package synonyms splits a raw synonym table into "clean" and "partial"
// groups, derives the alias->canonical reverse lookup, and expands partial
// synonyms into extra dictionary entries (spec.md §3, §4.4).
package synonyms

import (
	"strings"

	"autocomplete-hw/internal/domain/models"
)

// Split partitions raw into clean and partial groups. An alias is
// "partial" when it is a proper prefix of its key (e.g. "alfa" is a
// prefix of "alfa romeo"); everything else is "clean" (e.g. "beemer" vs.
// "bmw" share no prefix relationship).
func Split(raw models.SynonymInput) (clean, partial map[string][]string) {
	clean = make(map[string][]string)
	partial = make(map[string][]string)

	for rawKey, aliases := range raw {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		for _, rawAlias := range aliases {
			alias := strings.ToLower(strings.TrimSpace(rawAlias))
			if strings.HasPrefix(key, alias) {
				partial[key] = append(partial[key], alias)
			} else {
				clean[key] = append(clean[key], alias)
			}
		}
	}
	return clean, partial
}

// Reverse builds the alias->canonical-key lookup used to rewrite matched
// tokens back to their canonical form during search.
func Reverse(clean map[string][]string) map[string]string {
	reverse := make(map[string]string)
	for key, aliases := range clean {
		for _, alias := range aliases {
			reverse[alias] = key
		}
	}
	return reverse
}

// ExpandPartial adds an extra dictionary entry for every (word, partial
// key, alias) combination where word starts with the partial key: a
// clone of word's own record, stamped with its own key as original_key,
// filed under word with its leading partialKey substring swapped for
// alias. Cloning avoids corrupting the canonical record, since
// map-backed records are reference types.
func ExpandPartial(words map[string]models.WordAttrs, partial map[string][]string) map[string]models.WordAttrs {
	expanded := make(map[string]models.WordAttrs, len(words))
	for k, v := range words {
		expanded[k] = v
	}

	newEntries := make(map[string]models.WordAttrs)
	for word, record := range words {
		for partialKey, aliases := range partial {
			if !strings.HasPrefix(word, partialKey) {
				continue
			}
			stamped := record.Clone().WithField(models.FieldOriginalKey, word)
			for _, alias := range aliases {
				newKey := strings.Replace(word, partialKey, alias, 1)
				newEntries[newKey] = stamped
			}
		}
	}
	for k, v := range newEntries {
		expanded[k] = v
	}
	return expanded
}
