package query

import (
	"net/url"
	"strings"
)

// NormalizeEmail trims, percent-decodes and lowercases an email filter.
// Malformed escapes are kept verbatim.
func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	if dec, err := url.PathUnescape(s); err == nil {
		s = dec
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps digits only.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneVariants returns the digit-only form and its "+" prefixed variant.
func PhoneVariants(s string) []string {
	digits := NormalizePhone(s)
	if digits == "" {
		return nil
	}
	return []string{digits, "+" + digits}
}

// NormalizeDomain reduces a URL or host to its bare domain:
// "https://www.Acme.com/about?x=1" -> "acme.com".
func NormalizeDomain(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimPrefix(s, "//")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(s, "www.")
	return strings.Trim(s, ".")
}
