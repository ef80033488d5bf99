// Package corpus loads newline-delimited pattern/value records into a
// tree.Tree. original_source/ is pure C++ library code with no file format
// or CLI of its own, so this loader is new surface grounded in the teacher
// repository's own example-loading style (example/main.go, example/wschat.go:
// a main that wires up a tree/router and logs via golog) rather than
// anything "restored" from the original.
package corpus

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kashari/golog"
	"github.com/kashari/yggdrasil/tree"
)

// Decoder turns one raw input line into a pattern and a value. Callers own
// the line format entirely; Load only splits on newlines. V carries no
// comparable constraint, matching tree.Tree[V any] - only callers that go
// on to rank or finish the loaded tree need a comparable dedup key, and
// that requirement belongs to tree.MatchRanked/tree.Finish, not to Load.
type Decoder[V any] func(line []byte) (pattern string, value V, err error)

// Load streams newline-delimited records from r through decode and inserts
// each resulting pattern/value pair into t. Blank lines are skipped
// silently. A line decode fails on is logged at warn level and skipped,
// except the first such failure, which is also returned as err once the
// full input has been consumed (count still reports every successful
// insert up to that point) - consistent with the tolerant-by-default
// policy the tree package itself applies to malformed Insert input.
func Load[V any](r io.Reader, t *tree.Tree[V], decode Decoder[V]) (count int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineNo := 0
	var firstErr error
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		pattern, value, decodeErr := decode(line)
		if decodeErr != nil {
			golog.Warn("corpus: skipping line {}: {}", lineNo, decodeErr)
			if firstErr == nil {
				firstErr = fmt.Errorf("corpus: line %d: %w", lineNo, decodeErr)
			}
			continue
		}

		t.Insert(pattern, value)
		count++
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return count, scanErr
	}
	return count, firstErr
}
