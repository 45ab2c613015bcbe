package option

type RegistryOptions struct {
	// Path is the registry root; object files live under <path>/data/<class>.
	Path         string `json:"path,omitempty"`
	Output       string `json:"output,omitempty"`
	LF           bool   `json:"lf,omitempty"`
	DisableCache bool   `json:"disable_cache,omitempty"`
}
