package logging

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/masq"
)

const redacted = "[REDACTED]"

var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	schemePattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// sensitiveParams are query and fragment parameters whose values never
// reach a log line. SPA locations carry OAuth fragments and resource URLs
// may be signed CDN links.
var sensitiveParams = map[string]struct{}{
	"access_token":     {},
	"id_token":         {},
	"refresh_token":    {},
	"token":            {},
	"code":             {},
	"state":            {},
	"password":         {},
	"secret":           {},
	"api_key":          {},
	"apikey":           {},
	"signature":        {},
	"sig":              {},
	"x-amz-signature":  {},
	"x-amz-credential": {},
	"x-goog-signature": {},
}

// urlKeys are attributes holding a location or URL. Their string values
// pass through RedactLocation.
var urlKeys = map[string]struct{}{
	KeyLocation: {},
	"path":      {},
	"url":       {},
}

// DefaultRedactOptions returns the masq options applied to every formdesk
// handler: credential-shaped field names and token-shaped values.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, 16)
	for _, name := range []string{
		"password", "secret", "token", "authorization", "auth", "cookie",
		"session", "api_key", "apikey", "access_token", "refresh_token",
		"credentials",
	} {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(schemePattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr hook that scrubs locations and
// URLs first and then applies masq with DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	mask := masq.New(append(DefaultRedactOptions(), opts...)...)

	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := urlKeys[a.Key]; ok && a.Value.Kind() == slog.KindString {
			a.Value = slog.StringValue(RedactLocation(a.Value.String()))
		}

		return mask(groups, a)
	}
}

// RedactLocation replaces the values of sensitive query and fragment
// parameters in a location or absolute URL. Everything else, including
// parameter order and the path, is kept as written.
func RedactLocation(location string) string {
	head, fragment, hasFragment := strings.Cut(location, "#")
	path, query, hasQuery := strings.Cut(head, "?")

	var b strings.Builder
	b.Grow(len(location))
	b.WriteString(path)

	if hasQuery {
		b.WriteByte('?')
		b.WriteString(redactParams(query))
	}

	if hasFragment {
		b.WriteByte('#')
		if strings.Contains(fragment, "=") {
			fragment = redactParams(fragment)
		}
		b.WriteString(fragment)
	}

	return b.String()
}

func redactParams(raw string) string {
	pairs := strings.Split(raw, "&")
	for i, pair := range pairs {
		key, _, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			continue
		}

		name, err := url.QueryUnescape(key)
		if err != nil {
			name = key
		}

		if _, ok := sensitiveParams[strings.ToLower(name)]; ok {
			pairs[i] = key + "=" + redacted
		}
	}

	return strings.Join(pairs, "&")
}
