package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// documentCache stores parsed documents keyed by source and options hash.
var documentCache sync.Map

// cacheEntry holds the result of parsing one source once.
// The source and strict mode are kept to detect hash collisions.
type cacheEntry struct {
	once   sync.Once
	source string
	strict bool
	doc    *Document
	err    error
}

// hashOptions encodes the options that change a parse result using gob and
// hashes them with xxh3. The logger is not part of the key.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(o.strict)

	return xxh3.Hash(buf.Bytes())
}

// ParseCached parses s like [ParseString], returning the same [Document]
// for every call with identical source and options. Cached documents are
// shared and must not be modified.
func ParseCached(ctx context.Context, s string, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourceHash := xxh3.HashString(s)
	optsHash := hashOptions(o)
	key := cacheKey(sourceHash, optsHash)

	value, hit := documentCache.LoadOrStore(key, &cacheEntry{source: s, strict: o.strict})

	entry, ok := value.(*cacheEntry)
	if !ok || entry.source != s || entry.strict != o.strict {
		return ParseString(ctx, s, opts...)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.doc, entry.err = ParseString(ctx, s, opts...)
	})

	if errors.Is(entry.err, context.Canceled) ||
		errors.Is(entry.err, context.DeadlineExceeded) {
		documentCache.CompareAndDelete(key, entry)

		return nil, entry.err
	}

	return entry.doc, entry.err
}

func cacheKey(sourceHash, optsHash uint64) string {
	return strconv.FormatUint(sourceHash^optsHash, 36)
}

// ClearCache removes all cached documents.
func ClearCache() { documentCache.Clear() }
