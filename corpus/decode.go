package corpus

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record pairs a pattern with its opaque JSON-encoded value, the shape
// TabDecoder and JSONLineDecoder both produce. Value is kept as JSON text
// rather than json.RawMessage so Record stays comparable (a []byte field
// would not be) - that lets a Record act as its own tree.MatchRanked/
// tree.Finish dedup key (func(r Record) Record { return r }) instead of
// needing a separately maintained identity field.
type Record struct {
	Pattern string
	Score   float64
	Value   string
}

// TabDecoder parses "pattern\tscore\tvalue" lines (value is raw JSON text:
// everything after the second tab, so it may itself contain tabs wherever
// JSON allows whitespace, but not raw tabs inside a string) into a
// Decoder[Record]. A line missing the score or value field is rejected.
func TabDecoder() Decoder[Record] {
	return func(line []byte) (string, Record, error) {
		parts := strings.SplitN(string(line), "\t", 3)
		if len(parts) < 3 {
			return "", Record{}, fmt.Errorf("expected 3 tab-separated fields, got %d", len(parts))
		}
		pattern, scoreField, valueField := parts[0], parts[1], parts[2]
		if pattern == "" {
			return "", Record{}, fmt.Errorf("empty pattern")
		}
		score, err := strconv.ParseFloat(scoreField, 64)
		if err != nil {
			return "", Record{}, fmt.Errorf("invalid score %q: %w", scoreField, err)
		}
		if !json.Valid([]byte(valueField)) {
			return "", Record{}, fmt.Errorf("invalid JSON value %q", valueField)
		}
		return pattern, Record{Pattern: pattern, Score: score, Value: valueField}, nil
	}
}

// JSONLineDecoder parses one-JSON-object-per-line input, each object
// carrying "pattern", "score", and "value" fields, into a Decoder[Record].
func JSONLineDecoder() Decoder[Record] {
	return func(line []byte) (string, Record, error) {
		var raw struct {
			Pattern string          `json:"pattern"`
			Score   float64         `json:"score"`
			Value   json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(line, &raw); err != nil {
			return "", Record{}, err
		}
		if raw.Pattern == "" {
			return "", Record{}, fmt.Errorf("missing pattern field")
		}
		return raw.Pattern, Record{Pattern: raw.Pattern, Score: raw.Score, Value: string(raw.Value)}, nil
	}
}
