package router

import (
	"strings"
)

// Canonicalize validates a navigation target and returns it in the form
// the router stores: an absolute path without dot segments, repeated or
// trailing slashes, followed by the query string if there is one.
// Fragments are dropped.
//
// Full URLs, protocol-relative URLs and relative paths are rejected, as
// are backslashes, NUL bytes, malformed percent escapes and ".." segments
// that would climb above the root. The error matches ErrInvalidPath.
func Canonicalize(input string) (string, error) {
	if input == "" {
		return "/", nil
	}
	input, _, _ = strings.Cut(input, "#")

	if strings.HasPrefix(input, "//") || strings.Contains(input, "://") {
		return "", invalidPath(input, "navigation targets must be paths, not URLs")
	}
	if !strings.HasPrefix(input, "/") {
		return "", invalidPath(input, "navigation targets must start with /")
	}

	path, query, _ := strings.Cut(input, "?")
	if strings.Contains(path, "\\") {
		return "", invalidPath(input, "path contains a backslash")
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", invalidPath(input, "path contains a NUL byte")
	}
	if strings.Contains(path, "%") && !validEscapes(path) {
		return "", invalidPath(input, "path contains an invalid percent escape")
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segments) == 0 {
				return "", invalidPath(input, "path climbs above the root")
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	out := "/" + strings.Join(segments, "/")
	if query != "" {
		out += "?" + query
	}
	return out, nil
}

// validEscapes reports whether every % in path starts a two digit hex
// escape.
func validEscapes(path string) bool {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// splitURL separates a canonical URL into its path and query.
func splitURL(u string) Location {
	path, query, _ := strings.Cut(u, "?")
	return Location{Path: path, Query: query}
}
