package filter

import "net/url"

const (
	Name          = "name"
	MinPrice      = "min_price"
	MaxPrice      = "max_price"
	SortBy        = "sort_by"
	SortDirection = "sort_direction"
)

var recognized = []string{Name, MinPrice, MaxPrice, SortBy, SortDirection}

// Filters holds the product listing parameters present in a request.
// Values are passed through unvalidated.
type Filters map[string]string

func FromQuery(q url.Values) Filters {
	f := Filters{}
	for _, key := range recognized {
		if _, ok := q[key]; ok {
			f[key] = q.Get(key)
		}
	}
	if _, ok := f[SortBy]; ok {
		if _, ok := f[SortDirection]; !ok {
			f[SortDirection] = "asc"
		}
	}
	return f
}

func (f Filters) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}
