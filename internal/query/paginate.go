package query

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/anstrom/scanvault/internal/errors"
)

// Bounds is a requested [From, To) window. A nil To is unbounded.
type Bounds struct {
	From int64
	To   *int64
}

// Page is one window of a match set. Total is the size of the whole set.
type Page[T any] struct {
	Total   int `json:"total_entries"`
	Entries []T `json:"entries"`
}

// Paginate clamps b against len(items) and returns the window. Bounds never
// produce an error: out-of-range values are clamped and an inverted window is
// empty.
func Paginate[T any](items []T, b Bounds) Page[T] {
	n := int64(len(items))

	from := max(0, min(b.From, n))
	to := n
	if b.To != nil {
		to = min(n, max(*b.To, 0))
	}

	if from >= to {
		return Page[T]{Total: len(items), Entries: []T{}}
	}
	return Page[T]{Total: len(items), Entries: items[from:to]}
}

// ParseBounds parses the raw from and to query values. Empty values keep
// their defaults; non-integers are rejected.
func ParseBounds(fromRaw, toRaw string) (Bounds, error) {
	var b Bounds

	if fromRaw != "" {
		from, err := parseBound(fromRaw)
		if err != nil {
			return Bounds{}, errors.ErrInvalidParameter("from", fromRaw, err)
		}
		b.From = from
	}

	if toRaw != "" {
		to, err := parseBound(toRaw)
		if err != nil {
			return Bounds{}, errors.ErrInvalidParameter("to", toRaw, err)
		}
		b.To = &to
	}

	return b, nil
}

// parseBound accepts a base-10 integer with optional sign and surrounding
// whitespace. Values beyond int64 saturate.
func parseBound(raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if stderrors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return v, nil
		}
		return 0, err
	}
	return v, nil
}
