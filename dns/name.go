package dns

import (
	"net/netip"
	"strings"

	E "github.com/sagernet/sing/common/exceptions"
)

// ParseReverseName parses the labels in front of the zone: four decimal
// octets for IPv4 or 32 hex nibbles for IPv6, least significant first.
func ParseReverseName(labels string) (netip.Addr, error) {
	parts := strings.Split(labels, ".")
	switch len(parts) {
	case 4:
		reverse(parts)
		addr, err := netip.ParseAddr(strings.Join(parts, "."))
		if err != nil || !addr.Is4() {
			return netip.Addr{}, E.New("invalid reversed IPv4 address: ", labels)
		}
		return addr, nil
	case 32:
		reverse(parts)
		var builder strings.Builder
		for i, nibble := range parts {
			if len(nibble) != 1 || !isHex(nibble[0]) {
				return netip.Addr{}, E.New("invalid reversed IPv6 address: ", labels)
			}
			if i > 0 && i%4 == 0 {
				builder.WriteByte(':')
			}
			builder.WriteString(nibble)
		}
		addr, err := netip.ParseAddr(builder.String())
		if err != nil {
			return netip.Addr{}, E.Cause(err, "invalid reversed IPv6 address: ", labels)
		}
		return addr, nil
	default:
		return netip.Addr{}, E.New("unexpected label count ", len(parts), ": ", labels)
	}
}

func reverse(parts []string) {
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
