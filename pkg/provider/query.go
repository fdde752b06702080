package provider

import (
	"net/url"
	"strings"
)

// Query holds query string variables by name.
type Query map[string]string

func (q Query) Get(name string) string {
	return q[name]
}

// ParseQuery reads the query string produced by image URL builders:
//
//	img=<base>&t=<chain>[;<rule>:<chain>&flag=true]*
//
// Responsive segments following the first rule land after the flag variable
// and are folded back into the transform variable. Semicolons are kept as
// part of values, unlike in url.ParseQuery.
func ParseQuery(raw, transformVar string) Query {
	query := Query{}
	raw = strings.TrimPrefix(raw, "?")

	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)

		if key == transformVar {
			query[key] = unescape(value)
			continue
		}

		head, tail, folded := strings.Cut(value, ";")
		query[key] = unescape(head)
		if folded {
			query[transformVar] += ";" + unescape(tail)
		}
	}

	return query
}

var escaper = strings.NewReplacer(
	"%", "%25",
	"&", "%26",
	";", "%3B",
	"#", "%23",
	"+", "%2B",
	" ", "%20",
)

// EscapeValue escapes characters which would break the query string grammar.
func EscapeValue(value string) string {
	return escaper.Replace(value)
}

func unescape(value string) string {
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}

	return value
}
