package hostbridge

import (
	stderrors "errors"
	"strings"
)

// Navigation path rejections.
var (
	ErrExternalPath = stderrors.New("navigation path must be a local absolute path")
	ErrBackslash    = stderrors.New("navigation path contains a backslash")
	ErrNullByte     = stderrors.New("navigation path contains a null byte")
	ErrBadEscape    = stderrors.New("navigation path has an invalid percent escape")
	ErrEscapesRoot  = stderrors.New("navigation path climbs above the root")
)

// cleanNavPath validates a path received from a browser and returns it in
// canonical form with its query. Slashes are collapsed, dot segments are
// resolved and a trailing slash is dropped. changed reports whether the
// path part differs from the input.
func cleanNavPath(raw string) (clean string, changed bool, err error) {
	if strings.HasPrefix(raw, "//") || strings.Contains(raw, "://") || !strings.HasPrefix(raw, "/") {
		return "", false, ErrExternalPath
	}
	p, query, hasQuery := strings.Cut(raw, "?")
	if i := strings.IndexByte(p, '#'); i >= 0 {
		p = p[:i]
	}

	switch {
	case strings.ContainsRune(p, '\\'):
		return "", false, ErrBackslash
	case strings.ContainsRune(p, 0), strings.Contains(strings.ToUpper(p), "%00"):
		return "", false, ErrNullByte
	case !validEscapes(p):
		return "", false, ErrBadEscape
	}

	segs := make([]string, 0, strings.Count(p, "/"))
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segs) == 0 {
				return "", false, ErrEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}

	clean = "/" + strings.Join(segs, "/")
	changed = clean != p
	if hasQuery && query != "" {
		clean += "?" + query
	}
	return clean, changed, nil
}

func validEscapes(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHex(p[i+1]) || !isHex(p[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
