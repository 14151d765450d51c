package router

import (
	"net/url"
	"path"
	"strings"

	"github.com/jsamuelsen/formdesk/internal/domain"
)

type segmentKind uint8

const (
	segmentStatic segmentKind = iota
	segmentParam
	segmentCatchAll
)

type segment struct {
	kind  segmentKind
	value string // literal for static segments, parameter name otherwise
}

// pattern is a compiled route path.
type pattern struct {
	raw      string
	segments []segment

	// shape identifies structurally equivalent patterns: "/u/:id" and
	// "/U/:name" share the shape "/u/:/".
	shape string
}

// compilePattern parses a route path. Errors are *domain.ValidationError.
func compilePattern(raw string) (*pattern, error) {
	if raw == "" {
		return nil, domain.NewValidationError("path", "must not be empty")
	}

	if !strings.HasPrefix(raw, "/") {
		return nil, domain.NewValidationErrorWithValue("path", "must start with /", raw)
	}

	if strings.ContainsAny(raw, "?#") {
		return nil, domain.NewValidationErrorWithValue("path", "must not contain a query or fragment", raw)
	}

	trimmed := strings.TrimSuffix(raw[1:], "/")
	p := &pattern{raw: raw}

	if trimmed == "" {
		p.shape = "/"
		return p, nil
	}

	parts := strings.Split(trimmed, "/")
	seen := make(map[string]struct{}, len(parts))

	var shape strings.Builder

	for i, part := range parts {
		switch {
		case part == "":
			return nil, domain.NewValidationErrorWithValue("path", "must not contain empty segments", raw)

		case strings.HasPrefix(part, ":"), strings.HasPrefix(part, "*"):
			name := part[1:]
			if !validParamName(name) {
				return nil, domain.NewValidationErrorWithValue("path", "parameter names must be non-empty identifiers", raw)
			}

			if _, dup := seen[name]; dup {
				return nil, domain.NewValidationErrorWithValue("path", "parameter "+name+" is declared twice", raw)
			}
			seen[name] = struct{}{}

			kind := segmentParam
			marker := ":"
			if part[0] == '*' {
				if i != len(parts)-1 {
					return nil, domain.NewValidationErrorWithValue("path", "catch-all must be the last segment", raw)
				}
				kind = segmentCatchAll
				marker = "*"
			}

			p.segments = append(p.segments, segment{kind: kind, value: name})
			shape.WriteString("/" + marker)

		default:
			p.segments = append(p.segments, segment{kind: segmentStatic, value: part})
			shape.WriteString("/" + strings.ToLower(part))
		}
	}

	p.shape = shape.String()

	return p, nil
}

func validParamName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}

	return true
}

// match reports whether the canonical path segments satisfy the pattern.
// Static segments compare case-insensitively.
func (p *pattern) match(segs []string) (domain.Params, bool) {
	params := domain.Params{}
	i := 0

	for _, s := range p.segments {
		switch s.kind {
		case segmentStatic:
			if i >= len(segs) {
				return nil, false
			}

			decoded, err := url.PathUnescape(segs[i])
			if err != nil || !strings.EqualFold(decoded, s.value) {
				return nil, false
			}
			i++

		case segmentParam:
			if i >= len(segs) {
				return nil, false
			}

			decoded, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			params[s.value] = decoded
			i++

		case segmentCatchAll:
			decoded, err := url.PathUnescape(strings.Join(segs[i:], "/"))
			if err != nil {
				return nil, false
			}
			params[s.value] = decoded

			return params, true
		}
	}

	if i != len(segs) {
		return nil, false
	}

	return params, true
}

// build expands the pattern with params.
func (p *pattern) build(params domain.Params) (string, error) {
	if len(p.segments) == 0 {
		return "/", nil
	}

	var b strings.Builder

	for _, s := range p.segments {
		switch s.kind {
		case segmentStatic:
			b.WriteString("/" + s.value)

		case segmentParam:
			v, ok := params[s.value]
			if !ok || v == "" {
				return "", domain.NewValidationErrorWithValue("params", "missing value for "+s.value, p.raw)
			}
			b.WriteString("/" + url.PathEscape(v))

		case segmentCatchAll:
			v := strings.Trim(params[s.value], "/")
			if v == "" {
				continue
			}
			for _, part := range strings.Split(v, "/") {
				b.WriteString("/" + url.PathEscape(part))
			}
		}
	}

	if b.Len() == 0 {
		return "/", nil
	}

	return b.String(), nil
}

// canonicalPath strips query and fragment, collapses repeated slashes,
// resolves "." and ".." segments and drops a trailing slash. The result
// always starts with "/" and never climbs above the root.
func canonicalPath(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}

	segs := splitSegments(path.Clean("/" + location))
	if len(segs) == 0 {
		return "/"
	}

	return "/" + strings.Join(segs, "/")
}

func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]

	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}

	return out
}
