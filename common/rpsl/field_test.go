package rpsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	testCases := []struct {
		name     string
		field    Field
		line     string
		expected string
		matched  bool
	}{
		{"route", FieldRoute, "route:              172.20.0.0/24", "172.20.0.0/24", true},
		{"route without space", FieldRoute, "route:172.20.0.0/24", "172.20.0.0/24", true},
		{"leading whitespace", FieldRoute, "   \troute: 172.20.0.0/24", "172.20.0.0/24", true},
		{"upper case label", FieldRoute, "ROUTE: 172.20.0.0/24", "172.20.0.0/24", true},
		{"mixed case label", FieldOrigin, "Origin: AS4242420000", "AS4242420000", true},
		{"trailing content discarded", FieldASName, "as-name: EXAMPLE-AS # legacy", "EXAMPLE-AS", true},
		{"trailing newline", FieldOrigin, "origin: AS65000\n", "AS65000", true},
		{"route6", FieldRoute6, "route6: fd00:1234::/48", "fd00:1234::/48", true},
		{"route does not match route6", FieldRoute, "route6: fd00:1234::/48", "", false},
		{"route6 does not match route", FieldRoute6, "route: 172.20.0.0/24", "", false},
		{"vertical tab before label", FieldRoute, "\vroute: 172.20.0.0/24", "172.20.0.0/24", true},
		{"no-break space before label", FieldRoute, "\u00a0route: 172.20.0.0/24", "172.20.0.0/24", true},
		{"no-break space after colon", FieldRoute, "route:\u00a0172.20.0.0/24", "172.20.0.0/24", true},
		{"next line after colon", FieldOrigin, "origin:\u0085AS65000", "AS65000", true},
		{"ideographic space ends value", FieldASName, "as-name: EXAMPLE-AS\u3000legacy", "EXAMPLE-AS", true},
		{"unit separator after colon", FieldOrigin, "origin:\x1fAS65000", "AS65000", true},
		{"empty value", FieldASName, "as-name:   ", "", false},
		{"only unicode spaces", FieldASName, "as-name:\u00a0\u2003", "", false},
		{"label not at line start", FieldOrigin, "remarks: origin: AS1", "", false},
		{"missing colon", FieldOrigin, "origin AS65000", "", false},
		{"different field", FieldASName, "descr: Example network", "", false},
		{"empty line", FieldRoute, "", "", false},
		{"unknown field", Field("mnt-by"), "mnt-by: EXAMPLE-MNT", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			value, matched := Match(tc.field, tc.line)
			assert.Equal(t, tc.matched, matched)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestPrefixField(t *testing.T) {
	field, ok := PrefixField("route")
	assert.True(t, ok)
	assert.Equal(t, FieldRoute, field)

	field, ok = PrefixField("route6")
	assert.True(t, ok)
	assert.Equal(t, FieldRoute6, field)

	_, ok = PrefixField("aut-num")
	assert.False(t, ok)
}
