package constant

var Version = "unknown"

const PoweredBy = "https://github.com/rdp-studio/dn42-geoasn"
