package busybeaver

import _ "embed"

// Version is the module version, as released.
//
//go:embed VERSION
var Version string
