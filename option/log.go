package option

import (
	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json"
)

type LogOptions struct {
	Disabled     bool        `json:"disabled,omitempty"`
	Level        string      `json:"level,omitempty"`
	Output       string      `json:"output,omitempty"`
	Timestamp    bool        `json:"timestamp,omitempty"`
	DisableColor bool        `json:"-"`
	Outputs      []LogOutput `json:"outputs,omitempty"`
}

type _LogOutput struct {
	Type         string `json:"type"`             // stdout, stderr, file
	Format       string `json:"format,omitempty"` // text, json
	Path         string `json:"path,omitempty"`
	Timestamp    bool   `json:"timestamp,omitempty"`
	DisableColor bool   `json:"disable_color,omitempty"`
	Hostname     string `json:"hostname,omitempty"`
}

type LogOutput _LogOutput

func (o *LogOutput) UnmarshalJSON(content []byte) error {
	err := json.UnmarshalDisallowUnknownFields(content, (*_LogOutput)(o))
	if err != nil {
		return err
	}
	switch o.Type {
	case "stdout", "stderr":
	case "file":
		if o.Path == "" {
			return E.New("file output requires path")
		}
	default:
		return E.New("unknown log output type: ", o.Type)
	}
	switch o.Format {
	case "", "text", "json":
	default:
		return E.New("unknown log output format: ", o.Format)
	}
	return nil
}
