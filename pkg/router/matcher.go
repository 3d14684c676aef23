package router

import (
	"net/url"
	"strings"
	"sync"
)

// Pattern is a parsed route pattern.
type Pattern struct {
	// Segments are the non-empty pattern segments in order.
	Segments []string

	// ParamNames lists the captured names, "*" for a catch-all.
	ParamNames []string

	// CatchAll is set when the last segment is "*".
	CatchAll bool
}

// Matcher matches paths against patterns and caches parsed patterns.
// It is safe for concurrent use.
type Matcher struct {
	mu    sync.Mutex
	cache map[string]Pattern
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{cache: make(map[string]Pattern)}
}

// Parse splits pattern into segments and collects its parameter names.
func (m *Matcher) Parse(pattern string) Pattern {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.cache[pattern]; ok {
		return p
	}
	p := Pattern{Segments: splitPath(pattern)}
	for i, seg := range p.Segments {
		switch {
		case strings.HasPrefix(seg, ":"):
			p.ParamNames = append(p.ParamNames, seg[1:])
		case seg == "*" && i == len(p.Segments)-1:
			p.ParamNames = append(p.ParamNames, "*")
			p.CatchAll = true
		}
	}
	m.cache[pattern] = p
	return p
}

// Match reports whether path matches pattern and returns the captured
// parameters. A match without parameters returns an empty, non-nil map.
// Segments that fail to percent-decode do not match.
func (m *Matcher) Match(path, pattern string) (Params, bool) {
	p := m.Parse(pattern)
	segs := splitPath(path)

	if p.CatchAll {
		if len(segs) < len(p.Segments)-1 {
			return nil, false
		}
	} else if len(segs) != len(p.Segments) {
		return nil, false
	}

	params := make(Params, len(p.ParamNames))
	for i, seg := range p.Segments {
		switch {
		case p.CatchAll && i == len(p.Segments)-1:
			rest := make([]string, 0, len(segs)-i)
			for _, s := range segs[i:] {
				v, err := url.PathUnescape(s)
				if err != nil {
					return nil, false
				}
				rest = append(rest, v)
			}
			params["*"] = strings.Join(rest, "/")
		case strings.HasPrefix(seg, ":"):
			v, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			params[seg[1:]] = v
		case seg != segs[i]:
			return nil, false
		}
	}
	return params, true
}

// ParseQuery decodes a query string, with or without its leading "?".
// When a key repeats, the last value wins. Malformed pairs are skipped.
func ParseQuery(search string) Params {
	values, _ := url.ParseQuery(strings.TrimPrefix(search, "?"))
	params := make(Params, len(values))
	for k, vs := range values {
		params[k] = vs[len(vs)-1]
	}
	return params
}

// splitPath returns the non-empty segments of a slash separated path.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
