package option

import (
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json"
)

type Options struct {
	Log      *LogOptions     `json:"log,omitempty"`
	Registry RegistryOptions `json:"registry,omitempty"`
	Database DatabaseOptions `json:"database,omitempty"`
	API      *APIOptions     `json:"api,omitempty"`
	DNS      *DNSOptions     `json:"dns,omitempty"`
}

// ParseOptions decodes a configuration document. Unknown fields are rejected.
func ParseOptions(content []byte) (Options, error) {
	var options Options
	err := json.UnmarshalDisallowUnknownFields(content, &options)
	if err != nil {
		return Options{}, E.Cause(err, "decode config")
	}
	return options, nil
}
