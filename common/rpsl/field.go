// Package rpsl matches the handful of RPSL attributes the table builder needs.
package rpsl

import (
	"regexp"
)

type Field string

const (
	FieldRoute  Field = "route"
	FieldRoute6 Field = "route6"
	FieldOrigin Field = "origin"
	FieldASName Field = "as-name"
)

var fieldPatterns = map[Field]*regexp.Regexp{
	FieldRoute:  compileField(FieldRoute),
	FieldRoute6: compileField(FieldRoute6),
	FieldOrigin: compileField(FieldOrigin),
	FieldASName: compileField(FieldASName),
}

// space is the Unicode whitespace set, the \x1c-\x1f separators included.
// RE2 \s only covers ASCII.
const (
	space    = `[\t\n\v\f\r\x1c-\x1f\x85\p{Z}]`
	nonSpace = `[^\t\n\v\f\r\x1c-\x1f\x85\p{Z}]`
)

func compileField(field Field) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + space + `*` + regexp.QuoteMeta(string(field)) + `:` + space + `*(` + nonSpace + `+)`)
}

// Match returns the first whitespace-delimited token after "<field>:" when the
// line starts with that attribute, ignoring case and leading whitespace.
func Match(field Field, line string) (string, bool) {
	pattern, loaded := fieldPatterns[field]
	if !loaded {
		return "", false
	}
	submatch := pattern.FindStringSubmatch(line)
	if submatch == nil {
		return "", false
	}
	return submatch[1], true
}

// PrefixField returns the attribute that carries the prefix of a route object class.
func PrefixField(class string) (Field, bool) {
	switch class {
	case string(FieldRoute):
		return FieldRoute, true
	case string(FieldRoute6):
		return FieldRoute6, true
	default:
		return "", false
	}
}
