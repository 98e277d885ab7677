package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"autocomplete-hw/internal/domain/models"
)

func writeFixture(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture %s: %v", name, err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}

func TestLoadParsesAllThreeSources(t *testing.T) {
	dir := t.TempDir()
	wordsPath := writeFixture(t, dir, "words", map[string]map[string]any{
		"bmw":    {"count": 3},
		"toyota": {"count": 1},
	})
	synPath := writeFixture(t, dir, "synonyms", map[string][]string{
		"bmw": {"beemer"},
	})
	stopPath := writeFixture(t, dir, "full_stop_words", []string{"bmw"})

	l := New(discardLogger(), Config{ContentFiles: map[string]ContentFileConfig{
		sourceWords:         {Path: wordsPath},
		sourceSynonyms:      {Path: synPath},
		sourceFullStopWords: {Path: stopPath},
	}}, nil)

	result, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(result.Words) != 2 {
		t.Fatalf("got %d words, want 2", len(result.Words))
	}
	if got := result.Words["bmw"].Get(models.FieldCount, -1); got != 3 {
		t.Fatalf("bmw count = %v, want 3", got)
	}
	if len(result.Synonyms["bmw"]) != 1 || result.Synonyms["bmw"][0] != "beemer" {
		t.Fatalf("synonyms[bmw] = %v, want [beemer]", result.Synonyms["bmw"])
	}
	if len(result.FullStopWords) != 1 || result.FullStopWords[0] != "bmw" {
		t.Fatalf("fullStopWords = %v, want [bmw]", result.FullStopWords)
	}
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	l := New(discardLogger(), Config{ContentFiles: map[string]ContentFileConfig{
		sourceWords: {Path: "/does/not/exist.json"},
	}}, nil)

	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing fixture file")
	}
}

func TestInternStringsDedupesRepeatedValues(t *testing.T) {
	records := map[string]map[string]any{
		"a": {"display": "Car Make"},
		"b": {"display": "Car Make"},
		"c": {"display": "Different"},
	}
	internStrings(records)

	if records["a"]["display"] != records["b"]["display"] {
		t.Fatalf("expected identical interned values, got %v vs %v", records["a"]["display"], records["b"]["display"])
	}
	if records["c"]["display"] != "Different" {
		t.Fatalf("unrelated value mutated: %v", records["c"]["display"])
	}
}

func TestKVCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewKVCache(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("NewKVCache: %v", err)
	}
	defer cache.Close()

	want := []byte(`{"bmw":{"count":1}}`)
	if err := cache.Put("words", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := cache.Get("words")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("Get = %q, want %q", got, want)
	}
}

func TestKVCacheGetMissReturnsError(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewKVCache(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("NewKVCache: %v", err)
	}
	defer cache.Close()

	if _, err := cache.Get("missing"); err == nil {
		t.Fatal("expected error for cache miss")
	}
}

func TestLoadPrefersCacheOverLocalFile(t *testing.T) {
	dir := t.TempDir()
	wordsPath := writeFixture(t, dir, "words", map[string]map[string]any{
		"stale": {"count": 0},
	})

	cache, err := NewKVCache(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("NewKVCache: %v", err)
	}
	defer cache.Close()

	cachedData, _ := json.Marshal(map[string]map[string]any{"fresh": {"count": 9}})
	if err := cache.Put(sourceWords, cachedData); err != nil {
		t.Fatalf("Put: %v", err)
	}

	l := New(discardLogger(), Config{ContentFiles: map[string]ContentFileConfig{
		sourceWords: {Path: wordsPath},
	}}, cache)

	result, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	keys := make([]string, 0, len(result.Words))
	for k := range result.Words {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) != 1 || keys[0] != "fresh" {
		t.Fatalf("Words keys = %v, want [fresh] (cache should win over stale local file)", keys)
	}
}

func TestPopulateCacheWritesLocalFixtureBytes(t *testing.T) {
	dir := t.TempDir()
	wordsPath := writeFixture(t, dir, "words", map[string]map[string]any{
		"bmw": {"count": 1},
	})

	cache, err := NewKVCache(filepath.Join(dir, "kv"))
	if err != nil {
		t.Fatalf("NewKVCache: %v", err)
	}
	defer cache.Close()

	l := New(discardLogger(), Config{ContentFiles: map[string]ContentFileConfig{
		sourceWords: {Path: wordsPath},
	}}, cache)

	if err := l.PopulateCache(context.Background()); err != nil {
		t.Fatalf("PopulateCache: %v", err)
	}

	want, _ := os.ReadFile(wordsPath)
	got, err := cache.Get(sourceWords)
	if err != nil {
		t.Fatalf("Get after PopulateCache: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("cached bytes = %q, want %q", got, want)
	}
}

func TestPopulateCacheRequiresConfiguredCache(t *testing.T) {
	l := New(discardLogger(), Config{}, nil)
	if err := l.PopulateCache(context.Background()); err == nil {
		t.Fatal("expected error when no cache is configured")
	}
}
