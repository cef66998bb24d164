package store

import (
	"encoding/json"
	"sort"
)

type entry struct {
	id  string
	rec Record
}

// sortEntries orders entries the way the Realtime Database orders a child
// query: null, false, true, numbers, strings, then everything else, with
// ties broken by key. An empty field orders by key alone.
func sortEntries(entries []entry, field string) {
	sort.SliceStable(entries, func(i, j int) bool {
		if field != "" {
			if c := compareValues(entries[i].rec[field], entries[j].rec[field]); c != 0 {
				return c < 0
			}
		}
		return entries[i].id < entries[j].id
	})
}

func records(entries []entry) []Record {
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.rec)
	}
	return out
}

func rank(v interface{}) int {
	switch v := v.(type) {
	case nil:
		return 0
	case bool:
		if v {
			return 2
		}
		return 1
	case string:
		return 4
	default:
		if _, ok := number(v); ok {
			return 3
		}
		return 5
	}
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func compareValues(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch ra {
	case 3:
		fa, _ := number(a)
		fb, _ := number(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
	case 4:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
	}
	return 0
}

// equalValues compares a stored value with a query value, treating all
// numeric types alike.
func equalValues(stored, want interface{}) bool {
	if fs, ok := number(stored); ok {
		fw, ok := number(want)
		return ok && fs == fw
	}
	return rank(stored) == rank(want) && compareValues(stored, want) == 0
}
