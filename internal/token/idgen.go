package token

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints fresh token and operation ids. Implementations must be
// unique and monotonic for the lifetime of one editing session; callers
// must not assume specific values.
type IDSource interface {
	Next() string
}

// SeqSource is a prefix plus an increasing counter ("t1", "t2", ...).
// Deterministic, so tests and replays get stable ids.
type SeqSource struct {
	prefix string
	n      atomic.Int64
}

// NewSeqSource creates a sequential id source with the given prefix.
func NewSeqSource(prefix string) *SeqSource {
	return &SeqSource{prefix: prefix}
}

// Next returns the next id in the sequence.
func (s *SeqSource) Next() string {
	return fmt.Sprintf("%s%d", s.prefix, s.n.Add(1))
}

// UUIDSource mints random UUIDs, unique across sessions and restarts.
type UUIDSource struct{}

// Next returns a fresh UUID string.
func (UUIDSource) Next() string { return uuid.NewString() }

// CompareIDs orders two ids. Ids sharing a non-numeric prefix compare by
// their numeric suffix so sequential ids sort in mint order; anything else
// falls back to plain string comparison.
func CompareIDs(a, b string) int {
	ap, an, aok := splitNumericSuffix(a)
	bp, bn, bok := splitNumericSuffix(b)
	if aok && bok && ap == bp {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func splitNumericSuffix(id string) (prefix string, n int64, ok bool) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	if i == len(id) {
		return id, 0, false
	}
	n, err := strconv.ParseInt(id[i:], 10, 64)
	if err != nil {
		return id, 0, false
	}
	return id[:i], n, true
}
