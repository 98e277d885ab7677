package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything needed to construct a running engine: its
// search tuning, its content fixture locations, an optional on-disk
// cache, and the interactive demo's defaults.
type Config struct {
	Env        string           `yaml:"env" env-default:"local"`
	Engine     EngineConfig     `yaml:"engine"`
	Loader     LoaderConfig     `yaml:"loader"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	CUI        CUIConfig        `yaml:"cui"`
}

// EngineConfig tunes Engine.Search's defaults and its LFU result cache.
type EngineConfig struct {
	MaxCost   int `yaml:"max_cost" env-default:"2"`
	Size      int `yaml:"size" env-default:"5"`
	CacheSize int `yaml:"cache_size" env-default:"2048"`
}

// LoaderConfig points at the three content fixture files and, if
// CachePath is non-empty, an on-disk KVCache to read/populate through.
type LoaderConfig struct {
	WordsPath         string `yaml:"words_path" env-default:"./data/words.json"`
	SynonymsPath      string `yaml:"synonyms_path" env-default:"./data/synonyms.json"`
	FullStopWordsPath string `yaml:"full_stop_words_path" env-default:"./data/full_stop_words.json"`
	Compress          bool   `yaml:"compress" env-default:"false"`
	CachePath         string `yaml:"cache_path" env-default:""`
}

// NormalizerConfig names extra runes the normalizer should accept beyond
// its default letter/digit/node-name classes.
type NormalizerConfig struct {
	ExtraChars string `yaml:"extra_chars" env-default:""`
}

// CUIConfig seeds the interactive demo's initial result-page size.
type CUIConfig struct {
	MaxResults int `yaml:"max_results" env-default:"5"`
}

// MustLoad reads the config file named by --config (or CONFIG_PATH, or
// the local default), applies any command-line overrides, and panics on
// a missing file or malformed config — there is no sensible way to run
// without one.
func MustLoad() *Config {
	configPathFlag := flag.String("config", "", "Path to the config file")
	wordsPathFlag := flag.String("words-path", "", "Path to the word dictionary fixture")
	maxCostFlag := flag.Int("max-cost", 0, "Override the default fuzzy-match max cost")
	sizeFlag := flag.Int("size", 0, "Override the default result page size")
	flag.Parse()

	configPath := *configPathFlag
	if configPath == "" {
		configPath = fetchConfigPath()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("error loading config file: " + err.Error())
	}

	if *wordsPathFlag != "" {
		cfg.Loader.WordsPath = *wordsPathFlag
	}
	if *maxCostFlag != 0 {
		cfg.Engine.MaxCost = *maxCostFlag
	}
	if *sizeFlag != 0 {
		cfg.Engine.Size = *sizeFlag
	}

	return &cfg
}

// fetchConfigPath resolves the config path from the environment, or a
// local default, when no flag was given. Priority: flag > env > default.
func fetchConfigPath() string {
	res := os.Getenv("CONFIG_PATH")
	if res == "" {
		cwd, _ := os.Getwd()
		fmt.Println("Current working directory:", cwd)
	}

	if res == "" {
		res = "./config/config_local.yaml"
	}

	fmt.Println("Config path:", res)
	return res
}
