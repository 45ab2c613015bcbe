package option

import (
	"github.com/sagernet/sing/common/json/badoption"
)

type ListenOptions struct {
	Listen     *badoption.Addr `json:"listen,omitempty"`
	ListenPort uint16          `json:"listen_port,omitempty"`
}

// APIOptions defines the HTTP lookup service
type APIOptions struct {
	ListenOptions
	PoweredBy string          `json:"powered_by,omitempty"`
	Timeout   *TimeoutOptions `json:"timeout,omitempty"`
}

// TimeoutOptions for HTTP server
type TimeoutOptions struct {
	Read  badoption.Duration `json:"read,omitempty"`
	Write badoption.Duration `json:"write,omitempty"`
	Idle  badoption.Duration `json:"idle,omitempty"`
}
