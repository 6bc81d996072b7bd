package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Inc", "acme-inc"},
		{"  ACME  Inc.  ", "acme-inc"},
		{"acme", "acme"},
		{"A&B Logistics 24/7", "a-b-logistics-24-7"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestNewTenantID(t *testing.T) {
	id := NewTenantID("Acme Inc")
	assert.True(t, strings.HasPrefix(id, "acme-inc-"), "got %q", id)

	suffix := strings.TrimPrefix(id, "acme-inc-")
	assert.NotEmpty(t, suffix)
	for _, r := range suffix {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "suffix rune %q", r)
	}

	// empty names still yield a usable id
	assert.NotEmpty(t, NewTenantID(""))
	assert.NotContains(t, NewTenantID("日本語のみ"), "--")
}
