package bhost

import (
	"net/url"
	"strings"
)

// cleanPrefix normalizes a mount prefix: a leading slash, no trailing slash. The root prefix mounts nothing.
func cleanPrefix(prefix string) string {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return ""
	}

	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return prefix
}

// matchesPrefix reports whether path lies under prefix, on a segment boundary.
func matchesPrefix(prefix, path string) bool {
	if prefix == "" {
		return true
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// stripPrefix removes prefix from a request target. The result always starts with a slash, the query is kept.
func stripPrefix(prefix, target string) string {
	if prefix == "" || !matchesPrefix(prefix, target) {
		return target
	}

	p := target[len(prefix):]
	if p == "" || p[0] == '?' {
		p = "/" + p
	}

	return p
}

// relativeTarget returns the native request target relative to prefix. Applications are matched on the decoded
// path, so when the raw target does not carry the prefix literally the relative target is rebuilt from the decoded
// path and the raw query.
func relativeTarget(prefix string, native Request) string {
	raw := native.UnparsedURI()
	if prefix == "" || matchesPrefix(prefix, raw) {
		return stripPrefix(prefix, raw)
	}

	path := stripPrefix(prefix, native.URI())
	target := (&url.URL{Path: path}).EscapedPath()
	if _, query, ok := strings.Cut(raw, "?"); ok {
		target += "?" + query
	}

	return target
}
