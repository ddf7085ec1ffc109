// Package query evaluates ports.Query filters and ordering in process, for
// stores whose backend cannot do it natively.
package query

import (
	"fmt"
	"sort"

	"sol-backend/application/ports"
)

// Matches reports whether r satisfies every filter. A missing column never matches.
func Matches(r ports.Record, filters []ports.Filter) bool {
	for _, f := range filters {
		v, ok := r[f.Field]
		if !ok || v == nil {
			return false
		}
		s := fmt.Sprint(v)
		switch f.Op {
		case ports.OpEq:
			if s != f.Value {
				return false
			}
		case ports.OpNeq:
			if s == f.Value {
				return false
			}
		case ports.OpGt:
			if s <= f.Value {
				return false
			}
		case ports.OpGte:
			if s < f.Value {
				return false
			}
		case ports.OpLt:
			if s >= f.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Apply filters, sorts and limits records according to q. The input slice is not modified.
func Apply(records []ports.Record, q ports.Query) []ports.Record {
	out := make([]ports.Record, 0, len(records))
	for _, r := range records {
		if Matches(r, q.Filters) {
			out = append(out, r)
		}
	}

	if q.SortField != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := fmt.Sprint(out[i][q.SortField]), fmt.Sprint(out[j][q.SortField])
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// Copy returns a shallow copy of r.
func Copy(r ports.Record) ports.Record {
	c := make(ports.Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
