package source

import (
	"fmt"
	"net/url"
	"strings"
)

// CanonicalURL normalizes an article URL into the stable form used as the
// cache key: lowercase scheme/host, no fragment, no tracking query params,
// no trailing slash. The same input always yields the same key, which is
// what keeps signal history accumulating under one entry across runs.
func CanonicalURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q missing scheme or host", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if isTrackingParam(param) {
			q.Del(param)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimRight(u.Path, "/")

	return u.String(), nil
}

func isTrackingParam(p string) bool {
	p = strings.ToLower(p)
	switch p {
	case "fbclid", "gclid", "ref", "source", "cmpid":
		return true
	}
	return strings.HasPrefix(p, "utm_")
}
