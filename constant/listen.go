package constant

const (
	DefaultAPIListenPort = 8080
	DefaultDNSListenPort = 5353
	DefaultDNSZone       = "origin.asn.dn42."
	DefaultDNSTTL        = 300
)
