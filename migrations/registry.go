package migrations

import "github.com/toolsascode/revmig/internal/registry"

// GlobalRegistry provides public access to the global revision registry.
// Revisions registered here are merged with the revision files on every load.
var GlobalRegistry = registry.GlobalRegistry

// Register adds rev to the global registry
func Register(rev *Revision) error {
	return GlobalRegistry.Register(rev)
}

// MustRegister adds rev to the global registry and panics on error. It is
// meant for init functions.
func MustRegister(rev *Revision) {
	if err := Register(rev); err != nil {
		panic(err)
	}
}
