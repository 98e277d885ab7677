// Package loader reads the word dictionary, synonym table and full-stop
// word list that seed the autocomplete engine, matching the original
// content_files shape: a name->{path, compress} mapping.
package loader

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"autocomplete-hw/internal/domain/models"
	"autocomplete-hw/internal/lib/logger/sl"
	"autocomplete-hw/internal/services/normalize"
	"autocomplete-hw/internal/workers"
)

const (
	sourceWords         = "words"
	sourceSynonyms      = "synonyms"
	sourceFullStopWords = "full_stop_words"
)

var ErrLoaderIO = errors.New("loader-io")

// ContentFileConfig names one fixture source: its path on disk and
// whether its string attribute values should be interned before use.
type ContentFileConfig struct {
	Path     string
	Compress bool
}

// Config is the name->source mapping handed to New, mirroring the
// original get_all_content/get_data content_files argument. Normalizer
// and ExtraChars, if set, clean each word key before it reaches the
// engine (the original's node-name normalization on load).
type Config struct {
	ContentFiles map[string]ContentFileConfig
	Normalizer   *normalize.Normalizer
	ExtraChars   []rune
}

// LoadResult is the fully-parsed content Load returns: the three
// fixtures shaped for autocomplete.Config.
type LoadResult struct {
	Words         map[string]models.WordAttrs
	Synonyms      models.SynonymInput
	FullStopWords []string
}

// FixtureLoader reads the content files concurrently, optionally through
// a gzip-wrapped KVCache in front of the local filesystem.
type FixtureLoader struct {
	log   *slog.Logger
	cfg   Config
	cache *KVCache
}

// New builds a FixtureLoader. cache may be nil, in which case Load always
// reads directly from the configured file paths.
func New(log *slog.Logger, cfg Config, cache *KVCache) *FixtureLoader {
	return &FixtureLoader{log: log, cfg: cfg, cache: cache}
}

type rawSource struct {
	name string
	data []byte
}

// Load fetches all configured content files concurrently via a worker
// pool, then parses each into its corresponding part of LoadResult. The
// engine is never constructed from a partial load: any single source
// error fails the whole call.
func (l *FixtureLoader) Load(ctx context.Context) (LoadResult, error) {
	const op = "loader.FixtureLoader.Load"

	pool, err := workers.New[rawSource]("loader_errors.json", len(l.cfg.ContentFiles))
	if err != nil {
		return LoadResult{}, fmt.Errorf("%s: %w: %w", op, ErrLoaderIO, err)
	}
	defer pool.CloseLogFile()

	fetchJobType := workers.NewJobType("fixture-fetch")
	pool.Run(ctx, len(l.cfg.ContentFiles))
	for name, source := range l.cfg.ContentFiles {
		name, source := name, source
		pool.AddJob(workers.Job[rawSource]{
			Description: workers.JobDescriptor{
				ID:       workers.JobID(name),
				JobType:  fetchJobType,
				Metadata: workers.NewMetadata(map[string]interface{}{"path": source.Path, "compress": source.Compress}),
			},
			ExecFn: func(ctx context.Context, _ rawSource) (rawSource, error) {
				data, err := l.fetch(ctx, name, source)
				if err != nil {
					return rawSource{}, err
				}
				return rawSource{name: name, data: data}, nil
			},
			Args: rawSource{name: name},
		})
	}
	pool.CloseJobs()

	raw := make(map[string][]byte, len(l.cfg.ContentFiles))
	for result := range pool.Results {
		if result.Err != nil {
			return LoadResult{}, fmt.Errorf("%s: %w: source %s: %w", op, ErrLoaderIO, result.Description.ID, result.Err)
		}
		raw[result.Value.name] = result.Value.data
	}
	pool.Metrics.PrintMetrics(l.log)

	return l.parse(raw)
}

// fetch returns source's bytes, trying the KVCache first (if configured)
// and falling back to the local fixture file on miss or error.
func (l *FixtureLoader) fetch(_ context.Context, name string, source ContentFileConfig) ([]byte, error) {
	if l.cache != nil {
		if data, err := l.cache.Get(name); err == nil {
			return data, nil
		}
	}

	data, err := os.ReadFile(source.Path)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Put(name, data); err != nil {
			l.log.Error("failed to populate cache", "source", name, "error", sl.Err(err))
		}
	}

	return data, nil
}

// PopulateCache forces every configured source's local fixture bytes
// into the KVCache, regardless of whether a prior Load already did so —
// the Go analogue of the original loader's populate_redis.
func (l *FixtureLoader) PopulateCache(_ context.Context) error {
	const op = "loader.FixtureLoader.PopulateCache"

	if l.cache == nil {
		return fmt.Errorf("%s: %w: no cache configured", op, ErrLoaderIO)
	}

	for name, source := range l.cfg.ContentFiles {
		data, err := os.ReadFile(source.Path)
		if err != nil {
			return fmt.Errorf("%s: %w: source %s: %w", op, ErrLoaderIO, name, err)
		}
		if err := l.cache.Put(name, data); err != nil {
			return fmt.Errorf("%s: %w: source %s: %w", op, ErrLoaderIO, name, err)
		}
	}
	return nil
}

func (l *FixtureLoader) parse(raw map[string][]byte) (LoadResult, error) {
	const op = "loader.FixtureLoader.parse"

	var result LoadResult

	if data, ok := raw[sourceWords]; ok {
		var records map[string]map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return LoadResult{}, fmt.Errorf("%s: %w: %w", op, ErrLoaderIO, err)
		}
		if l.cfg.ContentFiles[sourceWords].Compress {
			internStrings(records)
		}
		result.Words = make(map[string]models.WordAttrs, len(records))
		for word, attrs := range records {
			// JSON numbers decode as float64; the engine reads count as int.
			if count, ok := attrs[models.FieldCount].(float64); ok {
				attrs[models.FieldCount] = int(count)
			}
			result.Words[l.normalizeKey(word)] = models.MapRecord(attrs)
		}
	}

	if data, ok := raw[sourceSynonyms]; ok {
		var synonyms models.SynonymInput
		if err := json.Unmarshal(data, &synonyms); err != nil {
			return LoadResult{}, fmt.Errorf("%s: %w: %w", op, ErrLoaderIO, err)
		}
		result.Synonyms = synonyms
	}

	if data, ok := raw[sourceFullStopWords]; ok {
		var fullStop []string
		if err := json.Unmarshal(data, &fullStop); err != nil {
			return LoadResult{}, fmt.Errorf("%s: %w: %w", op, ErrLoaderIO, err)
		}
		result.FullStopWords = fullStop
	}

	return result, nil
}

// normalizeKey cleans a raw fixture word key through the configured
// Normalizer, if any; otherwise it is used as-is.
func (l *FixtureLoader) normalizeKey(word string) string {
	if l.cfg.Normalizer == nil {
		return word
	}
	return l.cfg.Normalizer.Normalize(word, l.cfg.ExtraChars...)
}

// internStrings replaces repeated string attribute values across records
// with a shared instance keyed by content hash, mirroring the original
// loader's hash->value interning table for compressed sources.
func internStrings(records map[string]map[string]any) {
	seen := make(map[string]string)
	for _, attrs := range records {
		for field, value := range attrs {
			s, ok := value.(string)
			if !ok {
				continue
			}
			hash := contentHash(s)
			if interned, ok := seen[hash]; ok {
				attrs[field] = interned
				continue
			}
			seen[hash] = s
		}
	}
}

func contentHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
