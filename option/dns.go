package option

import (
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json"
	"github.com/sagernet/sing/common/json/badoption"
)

type _DNSOptions struct {
	ListenOptions
	Network badoption.Listable[string] `json:"network,omitempty"`
	Zone    string                     `json:"zone,omitempty"`
	TTL     uint32                     `json:"ttl,omitempty"`
}

type DNSOptions _DNSOptions

func (o *DNSOptions) UnmarshalJSON(content []byte) error {
	err := json.UnmarshalDisallowUnknownFields(content, (*_DNSOptions)(o))
	if err != nil {
		return err
	}
	for _, network := range o.Network {
		if network != "udp" && network != "tcp" {
			return E.New("unknown dns network: ", network)
		}
	}
	return nil
}
