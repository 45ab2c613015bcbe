package constant

import "time"

const (
	DatabaseTypeGeoLite2ASN = "GeoLite2-ASN"
	DatabaseTypeSingASN     = "sing-asn"
	DatabaseRecordSize      = 24
	DatabaseDescription     = "GeoLite2 ASN data for DN42. Learn more at https://github.com/rdp-studio/dn42-geoasn"
)

const (
	DefaultTablePath    = "GeoLite2-ASN-DN42-Source.csv"
	DefaultDatabasePath = "GeoLite2-ASN-DN42.mmdb"

	DatabaseURL       = "https://github.com/rdp-studio/dn42-geoasn/releases/latest/download/GeoLite2-ASN-DN42.mmdb"
	DatabaseMirrorURL = "https://gh-proxy.com/" + DatabaseURL

	DefaultUpdateInterval  = 6 * time.Hour
	DefaultDownloadTimeout = 2 * time.Minute
)
