package tenant

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NewTenantID derives a tenant id from the company name: lower-cased,
// non-alphanumerics collapsed to single hyphens, plus a base36 timestamp
// suffix for uniqueness. "Acme Inc" -> "acme-inc-m1xyz0".
func NewTenantID(companyName string) string {
	base := slugify(companyName)
	suffix := strconv.FormatInt(time.Now().UnixMilli(), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

func slugify(s string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen && b.Len() > 0:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
