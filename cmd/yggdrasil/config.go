package main

import (
	"os"
	"strconv"

	"github.com/kashari/yggdrasil"
)

// Config collects the process-level settings shared by the serve/load/query
// commands, bound from cobra flags with an os.Getenv fallback — the teacher
// itself never reaches for a config framework (WithFileLogging takes a bare
// filePath argument, not a config struct), so this module matches that
// minimalism instead of introducing viper or similar.
type Config struct {
	Listen        string // port only, per Router.Start(port string)'s own convention
	CorpusPath    string
	CorpusFormat  string // "tab" or "json"
	DefaultK      int
	Comparator    string
	ComparatorKey string
	LogFile       string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func defaultConfig() Config {
	return Config{
		Listen:        envOr("YGGDRASIL_LISTEN", "4423"),
		CorpusPath:    envOr("YGGDRASIL_CORPUS", ""),
		CorpusFormat:  envOr("YGGDRASIL_CORPUS_FORMAT", "tab"),
		DefaultK:      envIntOr("YGGDRASIL_DEFAULT_K", 10),
		Comparator:    envOr("YGGDRASIL_COMPARATOR", yggdrasil.ComparatorLexicographic),
		ComparatorKey: envOr("YGGDRASIL_COMPARATOR_FIELD", ""),
		LogFile:       envOr("YGGDRASIL_LOG_FILE", ""),
	}
}
