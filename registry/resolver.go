package registry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rdp-studio/dn42-geoasn/common/rpsl"
	C "github.com/rdp-studio/dn42-geoasn/constant"
	E "github.com/sagernet/sing/common/exceptions"
)

var (
	ErrAutNumNotFound = E.New("aut-num object not found")
	ErrASNameNotFound = E.New("as-name attribute not found")
)

// NormalizeASN upper-cases an AS number and adds the AS prefix when missing,
// so that "65000", "as65000" and "AS65000" name the same aut-num object.
func NormalizeASN(asn string) string {
	asn = strings.ToUpper(asn)
	if !strings.HasPrefix(asn, "AS") {
		asn = "AS" + asn
	}
	return asn
}

// BareASN strips the AS prefix from an origin, leaving the digits.
func BareASN(origin string) string {
	if len(origin) >= 2 && strings.EqualFold(origin[:2], "AS") {
		return origin[2:]
	}
	return origin
}

type resolveResult struct {
	name string
	err  error
}

// Resolver maps AS numbers to the as-name of their aut-num object.
// It is not safe for concurrent use.
type Resolver struct {
	reader *Reader
	cache  map[string]resolveResult
}

func NewResolver(reader *Reader, cache bool) *Resolver {
	resolver := &Resolver{reader: reader}
	if cache {
		resolver.cache = make(map[string]resolveResult)
	}
	return resolver
}

// Resolve returns the AS name, or false when the aut-num object is missing,
// unreadable or has no as-name attribute.
func (r *Resolver) Resolve(asn string) (string, bool) {
	name, err := r.Lookup(asn)
	return name, err == nil
}

// Lookup is Resolve with the reason for a failed resolution.
func (r *Resolver) Lookup(asn string) (string, error) {
	normalized := NormalizeASN(asn)
	if r.cache != nil {
		if cached, loaded := r.cache[normalized]; loaded {
			return cached.name, cached.err
		}
	}
	name, err := r.lookup(normalized)
	if r.cache != nil {
		r.cache[normalized] = resolveResult{name, err}
	}
	return name, err
}

func (r *Resolver) lookup(asn string) (string, error) {
	if strings.ContainsRune(asn, '/') || strings.ContainsRune(asn, filepath.Separator) {
		return "", E.Cause(ErrAutNumNotFound, asn)
	}
	var (
		name  string
		found bool
	)
	err := r.reader.ScanFile(r.reader.ObjectPath(C.ObjectClassAutNum, asn), func(line string) bool {
		name, found = rpsl.Match(rpsl.FieldASName, line)
		return !found
	})
	if err != nil {
		if os.IsNotExist(err) {
			return "", E.Cause(ErrAutNumNotFound, asn)
		}
		return "", E.Cause(err, "read aut-num ", asn)
	}
	if !found {
		return "", E.Cause(ErrASNameNotFound, asn)
	}
	return name, nil
}
