package yggdrasil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kashari/golog"
	"github.com/kashari/yggdrasil/tree"
)

// Stored values are kept as their marshaled JSON text rather than a fixed Go
// type, so the insert endpoint can accept arbitrary JSON payloads. tree.Tree
// itself no longer requires V to be comparable, but MatchRanked/Finish still
// need a comparable key to deduplicate by; stringIdentity supplies that key
// as plain string equality over the JSON text itself.
type stringTree = tree.Tree[string]

func stringIdentity(s string) string { return s }

// Index is a single named suggestion index: one tree guarded by its own
// mutex, matching SPEC_FULL.md §5's server-layer concurrency model — the
// mutex is held across Insert and Finish, never across Match/MatchRanked.
type Index struct {
	mu   sync.Mutex
	Tree *stringTree
}

// TreeStore holds the set of named indexes a suggest server exposes over
// HTTP, created lazily on first reference.
type TreeStore struct {
	mu     sync.Mutex
	byName map[string]*Index
}

// NewTreeStore returns an empty store.
func NewTreeStore() *TreeStore {
	return &TreeStore{byName: make(map[string]*Index)}
}

func (s *TreeStore) get(name string) *Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byName[name]
	if !ok {
		idx = &Index{Tree: tree.New[string]()}
		s.byName[name] = idx
	}
	return idx
}

// Index returns (creating if necessary) the named index, for callers outside
// this package such as the CLI's corpus-preload path.
func (s *TreeStore) Index(name string) *Index {
	return s.get(name)
}

// Insert adds pattern -> value under idx's own lock and reports the new size.
func (idx *Index) Insert(pattern, value string) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.Tree.Insert(pattern, value)
	return idx.Tree.Size()
}

// Finish runs tree.Finish under idx's own lock and reports the tree's size.
func (idx *Index) Finish(cmp func(a, b string) bool, k int) int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	tree.Finish(idx.Tree, stringIdentity, cmp, k)
	return idx.Tree.Size()
}

// Comparator names accepted by the rank/finish query parameters.
const (
	ComparatorInsertion     = "insertion"
	ComparatorLexicographic = "lexicographic"
	ComparatorNumericField  = "numeric"
)

// comparatorFor builds a tree.MatchRanked-compatible comparator over the
// stored JSON-text values. A nil return means "no ranking comparator" -
// callers should fall back to plain insertion order (Match, not MatchRanked).
func comparatorFor(name, field string) func(a, b string) bool {
	switch name {
	case ComparatorLexicographic:
		return func(a, b string) bool { return a < b }
	case ComparatorNumericField:
		return func(a, b string) bool {
			return numericField(a, field) > numericField(b, field)
		}
	default:
		return nil
	}
}

func numericField(raw, field string) float64 {
	if field == "" {
		f, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return f
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return 0
	}
	f, _ := m[field].(float64)
	return f
}

func rawValues(vals []string) []json.RawMessage {
	out := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		out[i] = json.RawMessage(v)
	}
	return out
}

type insertRequest struct {
	Pattern string          `json:"pattern"`
	Value   json.RawMessage `json:"value"`
}

type finishRequest struct {
	K          int    `json:"k"`
	Comparator string `json:"comparator"`
	Field      string `json:"field"`
}

// suggestLatencyMiddleware logs how long each suggest-tree request took,
// tagged with the method and path so slow trees are easy to spot in logs.
func suggestLatencyMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next(w, req)
		golog.Debug("tree route {} {} took {}", req.Method, req.URL.Path, time.Since(start))
	}
}

// RegisterTreeRoutes wires the suggest-server routes from SPEC_FULL.md §4.5
// onto a "/v1/trees/:name" group on r, backed by store. defaultK bounds
// rank/finish queries that omit k. The group carries its own latency
// middleware, run in addition to whatever middleware r.Use has installed.
func RegisterTreeRoutes(r *Router, store *TreeStore, defaultK int) {
	g := r.Group("/v1/trees/:name").Use(suggestLatencyMiddleware)

	g.POST("/insert", func(c *Context) {
		idx := store.get(c.Param("name"))

		var req insertRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.Pattern == "" {
			c.JSON(http.StatusBadRequest, map[string]string{"error": "pattern is required"})
			return
		}
		if len(req.Value) == 0 {
			req.Value = json.RawMessage("null")
		}

		size := idx.Insert(req.Pattern, string(req.Value))

		golog.Debug("inserted pattern {} into tree {} (size now {})", req.Pattern, c.Param("name"), size)
		c.JSON(http.StatusOK, map[string]any{"size": size})
	})

	g.GET("/match", func(c *Context) {
		idx := store.get(c.Param("name"))
		prefix := c.Query("prefix")

		vals := idx.Tree.Match(prefix)
		c.JSON(http.StatusOK, map[string]any{"values": rawValues(vals)})
	})

	g.GET("/rank", func(c *Context) {
		idx := store.get(c.Param("name"))
		prefix := c.Query("prefix")
		k := queryIntOrDefault(c, "k", defaultK)
		cmpName := c.Query("cmp")
		field := c.Query("field")

		var vals []string
		if cmp := comparatorFor(cmpName, field); cmp != nil {
			vals = tree.MatchRanked(idx.Tree, prefix, stringIdentity, cmp, k)
		} else {
			vals = idx.Tree.Match(prefix)
			if len(vals) > k {
				vals = vals[:k]
			}
		}
		c.JSON(http.StatusOK, map[string]any{"values": rawValues(vals)})
	})

	g.POST("/finish", func(c *Context) {
		idx := store.get(c.Param("name"))

		var req finishRequest
		_ = c.BindJSON(&req) // a missing/empty body just takes the defaults below
		if req.K <= 0 {
			req.K = defaultK
		}
		cmp := comparatorFor(req.Comparator, req.Field)
		if cmp == nil {
			cmp = comparatorFor(ComparatorLexicographic, "")
		}

		size := idx.Finish(cmp, req.K)

		golog.Info("finished tree {} with k={} comparator={}", c.Param("name"), req.K, req.Comparator)
		c.JSON(http.StatusOK, map[string]any{"size": size})
	})

	g.GET("/iterate", func(c *Context) {
		idx := store.get(c.Param("name"))
		prefix := c.Query("prefix")
		start := queryIntOrDefault(c, "start", 0)
		count := queryIntOrDefault(c, "count", defaultK)

		it := idx.Tree.MatchIterator(prefix)
		it.Reset(start, count)

		var page []json.RawMessage
		for it.Valid() {
			page = append(page, json.RawMessage(it.Value()))
			it.Next()
		}
		c.JSON(http.StatusOK, map[string]any{"values": page, "total": it.Count()})
	})

	// WEBSOCKET has no RouterGroup equivalent, so /live is registered on r
	// directly with the group's path spelled out, rather than on g.
	r.WEBSOCKET("/v1/trees/:name/live", func(c *Context, conn *WebSocketConn) {
		name := c.Param("name")
		idx := store.get(name)
		k := queryIntOrDefault(c, "k", defaultK)
		// The ranking comparator is negotiated once at connection open (as
		// query parameters on the upgrade request), not per keystroke -
		// matching how /rank and /finish take cmp/field.
		cmp := comparatorFor(c.Query("cmp"), c.Query("field"))

		for msg := range conn.ReceiveChan {
			prefix := string(msg)
			var vals []string
			if cmp != nil {
				vals = tree.MatchRanked(idx.Tree, prefix, stringIdentity, cmp, k)
			} else {
				vals = idx.Tree.Match(prefix)
				if len(vals) > k {
					vals = vals[:k]
				}
			}
			body, err := json.Marshal(map[string]any{"prefix": prefix, "values": rawValues(vals)})
			if err != nil {
				golog.Error("failed to marshal live suggestions for tree {}: {}", name, err)
				continue
			}
			if err := conn.Send(body); err != nil {
				golog.Warn("failed to push suggestions to live client on tree {}: {}", name, err)
				return
			}
		}
	})
}

func queryIntOrDefault(c *Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
