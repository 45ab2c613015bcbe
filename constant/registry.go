package constant

const (
	DefaultRegistryPath   = "registry"
	RegistryDataDirectory = "data"

	ObjectClassAutNum = "aut-num"
	ObjectClassRoute  = "route"
	ObjectClassRoute6 = "route6"
)

// RouteObjectClasses is the order in which the table builder walks the registry.
var RouteObjectClasses = []string{ObjectClassRoute, ObjectClassRoute6}
