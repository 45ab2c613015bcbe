package option

import "github.com/sagernet/sing/common/json/badoption"

type DatabaseOptions struct {
	Path          string         `json:"path,omitempty"`
	Description   string         `json:"description,omitempty"`
	SkipHeader    bool           `json:"skip_header,omitempty"`
	Watch         bool           `json:"watch,omitempty"`
	DisableUpdate bool           `json:"disable_update,omitempty"`
	Update        *UpdateOptions `json:"update,omitempty"`
}

type UpdateOptions struct {
	URL      badoption.Listable[string] `json:"url,omitempty"`
	Mirror   bool                       `json:"mirror,omitempty"`
	Interval badoption.Duration         `json:"interval,omitempty"`
	Timeout  badoption.Duration         `json:"timeout,omitempty"`
}
