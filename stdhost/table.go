package stdhost

import (
	"net/http"
	"slices"

	"github.com/samber/lo"
)

// table implements bhost.Table on top of an http.Header.
type table struct{ h http.Header }

func (t table) Get(name string) (string, bool) {
	vals, ok := t.h[http.CanonicalHeaderKey(name)]
	if !ok || len(vals) == 0 {
		return "", false
	}

	return vals[0], true
}

func (t table) Set(name, value string) { t.h.Set(name, value) }
func (t table) Add(name, value string) { t.h.Add(name, value) }
func (t table) Unset(name string)      { t.h.Del(name) }

// Do visits entries in key order, values in insertion order.
func (t table) Do(fn func(name, value string) bool) {
	keys := lo.Keys(t.h)
	slices.Sort(keys)

	for _, k := range keys {
		for _, v := range t.h[k] {
			if !fn(k, v) {
				return
			}
		}
	}
}
