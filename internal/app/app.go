// Package app wires config, loader and engine together into the
// long-lived object cmd/autocomplete/main.go runs.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"autocomplete-hw/config"
	"autocomplete-hw/internal/services/autocomplete"
	"autocomplete-hw/internal/services/loader"
	"autocomplete-hw/internal/services/normalize"
)

// App owns the constructed engine and, if configured, the on-disk cache
// backing the loader.
type App struct {
	Engine *autocomplete.Engine
	cache  *loader.KVCache
}

// New loads the word/synonym/full-stop-word fixtures (through cfg's
// optional KVCache) and constructs the search engine from them.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	var cache *loader.KVCache
	if cfg.Loader.CachePath != "" {
		var err error
		cache, err = loader.NewKVCache(cfg.Loader.CachePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	fixtures := loader.New(log, loader.Config{
		ContentFiles: map[string]loader.ContentFileConfig{
			"words":           {Path: cfg.Loader.WordsPath, Compress: cfg.Loader.Compress},
			"synonyms":        {Path: cfg.Loader.SynonymsPath},
			"full_stop_words": {Path: cfg.Loader.FullStopWordsPath},
		},
		Normalizer: normalize.New(),
		ExtraChars: []rune(cfg.Normalizer.ExtraChars),
	}, cache)

	loaded, err := fixtures.Load(ctx)
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	engine, err := autocomplete.New(autocomplete.Config{
		Words:         loaded.Words,
		Synonyms:      loaded.Synonyms,
		FullStopWords: loaded.FullStopWords,
		CacheSize:     cfg.Engine.CacheSize,
		Logger:        log,
	})
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &App{Engine: engine, cache: cache}, nil
}

// Stop releases the on-disk cache, if one was opened.
func (a *App) Stop() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}
