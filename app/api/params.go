package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gamestore/store-admin/app/loading"
	"github.com/spf13/cast"
)

// Nested turns bracketed form keys into nested maps, so
// search[name]=x becomes {"search": {"name": "x"}} and
// product[category_ids][]=1 becomes {"product": {"category_ids": ["1"]}}.
func Nested(values map[string][]string) map[string]interface{} {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := map[string]interface{}{}
	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		segments := splitKey(key)
		node := out
		for i, seg := range segments {
			last := i == len(segments)-1
			if last {
				if seg == "" {
					continue
				}
				node[seg] = vals[len(vals)-1]
				break
			}
			if segments[i+1] == "" && i+1 == len(segments)-1 {
				list, _ := node[seg].([]interface{})
				for _, v := range vals {
					list = append(list, v)
				}
				node[seg] = list
				break
			}
			child, ok := node[seg].(map[string]interface{})
			if !ok {
				child = map[string]interface{}{}
				node[seg] = child
			}
			node = child
		}
	}
	return out
}

func splitKey(key string) []string {
	i := strings.Index(key, "[")
	if i <= 0 || !strings.HasSuffix(key, "]") {
		return []string{key}
	}
	segments := []string{key[:i]}
	rest := key[i+1 : len(key)-1]
	return append(segments, strings.Split(rest, "][")...)
}

// ListParams reads search, order, page and length from the query string.
func ListParams(r *http.Request) loading.Params {
	q := Nested(r.URL.Query())
	return loading.Params{
		Search: stringMap(q["search"]),
		Order:  stringMap(q["order"]),
		Page:   q["page"],
		Length: q["length"],
	}
}

func stringMap(v interface{}) map[string]string {
	if v == nil {
		return nil
	}
	m, err := cast.ToStringMapStringE(v)
	if err != nil {
		return nil
	}
	return m
}

// ID parses the {id} path value. Malformed and zero ids are rejected.
func ID(r *http.Request) (uint, bool) {
	id, err := cast.ToUintE(strings.TrimSpace(r.PathValue("id")))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
