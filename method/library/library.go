// Package library holds the host libraries exposed to scripts through
// the reflective resolver of package method.  Importing the package
// registers every library with method.RegisterLibrary.
package library

import "github.com/brimdata/zscript/method"

func init() {
	for _, lib := range All() {
		method.RegisterLibrary(lib)
	}
}

// All returns a new instance of every library in the package.
func All() []method.Library {
	return []method.Library{
		&Strings{},
		&Numbers{},
		&Time{},
		&Format{},
		&Sets{},
		&IDs{},
	}
}
